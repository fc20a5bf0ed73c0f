package response

import (
	"time"

	"github.com/mcoot/seabattle-go/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsBot bool   `json:"is_bot,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:    string(p.ID),
		Name:  p.Name,
		IsBot: p.IsBot,
	}
}

// Room represents an open room
type Room struct {
	ID        string    `json:"id"`
	Host      Player    `json:"host"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomFromModel converts model.Room
func RoomFromModel(r model.Room) Room {
	return Room{
		ID:        string(r.ID),
		Host:      PlayerFromModel(r.Host),
		CreatedAt: r.CreatedAt,
	}
}

// RoomList is the response for GET /api/v1/rooms
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// Winner is one row of the winners table
type Winner struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// WinnerList is the response for GET /api/v1/winners
type WinnerList struct {
	Winners []Winner `json:"winners"`
}

// WinnerListFromModel converts a ledger snapshot, keeping its order
func WinnerListFromModel(entries []model.WinnerEntry) WinnerList {
	winners := make([]Winner, len(entries))
	for i, e := range entries {
		winners[i] = Winner{Name: e.Name, Wins: e.Wins}
	}
	return WinnerList{Winners: winners}
}

// Game is the public view of a game
type Game struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	Players     []Player `json:"players"`
	CurrentTurn string   `json:"current_turn,omitempty"`
	Winner      *string  `json:"winner"`
	Forfeit     bool     `json:"forfeit,omitempty"`
}

// GameFromModel converts model.GameSummary
func GameFromModel(g model.GameSummary) Game {
	players := make([]Player, len(g.Players))
	for i, p := range g.Players {
		players[i] = PlayerFromModel(p)
	}

	var winner *string
	if g.Winner != "" {
		w := string(g.Winner)
		winner = &w
	}

	var currentTurn string
	if g.Status == model.GameStatusInProgress {
		currentTurn = string(g.CurrentTurn)
	}

	return Game{
		ID:          string(g.ID),
		Status:      string(g.Status),
		Players:     players,
		CurrentTurn: currentTurn,
		Winner:      winner,
		Forfeit:     g.Forfeit,
	}
}

// Health reports liveness and in-memory load
type Health struct {
	Status        string `json:"status"`
	OpenRooms     int    `json:"open_rooms"`
	Games         int    `json:"games"`
	OnlinePlayers int    `json:"online_players"`
	Connections   int    `json:"connections"`
}
