package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a game participant
type Player struct {
	ID          PlayerID
	Name        string
	IsBot       bool   // bots are created per single-player game and never log in
	BotStrategy string // empty for humans
	CreatedAt   time.Time
}

// RegisteredPlayer holds the credential for a named player.
// Stored separately from Player so the hash never travels with game state.
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Name         string // case-sensitive, immutable
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
