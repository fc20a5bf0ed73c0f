package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the current phase of a game
type GameStatus string

const (
	GameStatusAwaitingFleets GameStatus = "awaiting_fleets" // Both players placing ships
	GameStatusInProgress     GameStatus = "in_progress"     // Players taking turns attacking
	GameStatusFinished       GameStatus = "finished"        // Winner decided
)

// Game is a single two-player match
type Game struct {
	ID      GameID
	Status  GameStatus
	Players [2]Player

	// Boards keyed by owner; each player attacks the opponent's board
	Boards map[PlayerID]*Board

	CurrentTurn PlayerID // always one of Players
	Winner      PlayerID // empty until Finished
	Forfeit     bool     // true if the game ended by disconnect

	CreatedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt time.Time
}

// NewGame creates a game awaiting fleets from both players
func NewGame(id GameID, p1, p2 Player, now time.Time) *Game {
	return &Game{
		ID:      id,
		Status:  GameStatusAwaitingFleets,
		Players: [2]Player{p1, p2},
		Boards: map[PlayerID]*Board{
			p1.ID: NewBoard(id, p1.ID),
			p2.ID: NewBoard(id, p2.ID),
		},
		CurrentTurn: p1.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsParticipant returns true if the player is one of the two players
func (g *Game) IsParticipant(id PlayerID) bool {
	return g.Players[0].ID == id || g.Players[1].ID == id
}

// Player returns the participant with the given ID
func (g *Game) Player(id PlayerID) (Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Opponent returns the other participant
func (g *Game) Opponent(id PlayerID) Player {
	if g.Players[0].ID == id {
		return g.Players[1]
	}
	return g.Players[0]
}

// BothFleetsPlaced returns true when both boards have a fleet
func (g *Game) BothFleetsPlaced() bool {
	for _, b := range g.Boards {
		if !b.HasFleet() {
			return false
		}
	}
	return true
}

// HasBot returns true if either participant is a bot
func (g *Game) HasBot() bool {
	return g.Players[0].IsBot || g.Players[1].IsBot
}

// GameSummary is a lightweight read-only view of a game
type GameSummary struct {
	ID          GameID
	Status      GameStatus
	Players     [2]Player
	CurrentTurn PlayerID
	Winner      PlayerID
	Forfeit     bool
}

// Summary returns a copy of the externally visible fields
func (g *Game) Summary() GameSummary {
	return GameSummary{
		ID:          g.ID,
		Status:      g.Status,
		Players:     g.Players,
		CurrentTurn: g.CurrentTurn,
		Winner:      g.Winner,
		Forfeit:     g.Forfeit,
	}
}
