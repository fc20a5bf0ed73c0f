// Package presence tracks where each player currently sits: waiting in a
// room, playing a game, or nowhere.
package presence

import (
	"sync"

	"github.com/mcoot/seabattle-go/internal/model"
)

// Tracker is the back-reference from a player to its current room or game
type Tracker struct {
	mu        sync.RWMutex
	locations map[model.PlayerID]model.Location
}

// New creates an empty Tracker
func New() *Tracker {
	return &Tracker{
		locations: make(map[model.PlayerID]model.Location),
	}
}

// Locate returns the player's current location (zero if none)
func (t *Tracker) Locate(id model.PlayerID) model.Location {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.locations[id]
}

// EnterRoom records the player as waiting in a room.
// Fails if the player already occupies a room or game.
func (t *Tracker) EnterRoom(id model.PlayerID, roomID model.RoomID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.locations[id].IsZero() {
		return model.ErrAlreadyInRoomOrGame
	}
	t.locations[id] = model.Location{RoomID: roomID}
	return nil
}

// EnterGame moves the players into a game, replacing any room they were in
func (t *Tracker) EnterGame(gameID model.GameID, ids ...model.PlayerID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		t.locations[id] = model.Location{GameID: gameID}
	}
}

// LeaveRoom clears the player's location if it is the given room
func (t *Tracker) LeaveRoom(id model.PlayerID, roomID model.RoomID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.locations[id].RoomID == roomID {
		delete(t.locations, id)
	}
}

// LeaveGame clears each player's location if it is the given game
func (t *Tracker) LeaveGame(gameID model.GameID, ids ...model.PlayerID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		if t.locations[id].GameID == gameID {
			delete(t.locations, id)
		}
	}
}
