package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound      = errors.New("player not found")
	ErrInvalidCredential   = errors.New("invalid name or password")
	ErrPlayerAlreadyOnline = errors.New("player is already logged in")
	ErrNotRegistered       = errors.New("connection has not registered a player")

	// Room errors
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrAlreadyInRoom       = errors.New("player is already in this room")
	ErrAlreadyInRoomOrGame = errors.New("player is already in a room or game")

	// Game errors
	ErrGameNotFound          = errors.New("game not found")
	ErrNotInGame             = errors.New("player is not in this game")
	ErrGameNotStarted        = errors.New("game is still awaiting fleets")
	ErrFleetAlreadySubmitted = errors.New("fleet has already been submitted")
	ErrInvalidPlacement      = errors.New("invalid ship placement")
	ErrNotYourTurn           = errors.New("not this player's turn")
	ErrAlreadyAttacked       = errors.New("cell has already been attacked")
	ErrOutOfBounds           = errors.New("coordinate is out of bounds")
	ErrSessionFinished       = errors.New("game is already finished")
	ErrNoUntriedCells        = errors.New("no untried cells remain")

	// Bot errors
	ErrFleetGeneration = errors.New("could not generate a spaced fleet")

	// Protocol errors
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrMalformedMessage   = errors.New("malformed message")
)
