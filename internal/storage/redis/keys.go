package redis

import (
	"fmt"

	"github.com/mcoot/seabattle-go/internal/model"
)

// keys builds Redis keys under a configurable prefix
type keys struct {
	prefix string
}

// playerKey returns the Redis key for a Player
func (k keys) playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", k.prefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func (k keys) registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", k.prefix, playerID)
}

// nameIndexKey returns the Redis key for the name -> player_id index
func (k keys) nameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:name:%s", k.prefix, name)
}

// winnersKey returns the Redis key for the winners HASH (name -> wins)
func (k keys) winnersKey() string {
	return fmt.Sprintf("%s:winners", k.prefix)
}
