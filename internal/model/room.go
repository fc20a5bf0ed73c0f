package model

import "time"

// RoomID identifies a waiting room
type RoomID string

// Room is a waiting area holding a single player until an opponent joins
type Room struct {
	ID        RoomID
	Host      Player
	CreatedAt time.Time
}

// Occupants returns the players currently waiting in the room
func (r *Room) Occupants() []Player {
	return []Player{r.Host}
}

// IsOpen returns true while the room can accept an opponent
func (r *Room) IsOpen() bool {
	return r.Host.ID != ""
}

// Location is where a player currently sits: at most one of a room or a game
type Location struct {
	RoomID RoomID
	GameID GameID
}

// IsZero returns true if the player is neither waiting nor playing
func (l Location) IsZero() bool {
	return l.RoomID == "" && l.GameID == ""
}
