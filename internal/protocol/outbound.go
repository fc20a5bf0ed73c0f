package protocol

import (
	"fmt"

	"github.com/mcoot/seabattle-go/internal/model"
)

// RegResponse answers a reg request
type RegResponse struct {
	Name      string `json:"name"`
	Index     string `json:"index"`
	Error     bool   `json:"error"`
	ErrorText string `json:"errorText"`
	Code      string `json:"code,omitempty"`
}

// RoomUser is one occupant in the room list
type RoomUser struct {
	Name  string `json:"name"`
	Index string `json:"index"`
}

// RoomEntry is one open room
type RoomEntry struct {
	RoomID    string     `json:"roomId"`
	RoomUsers []RoomUser `json:"roomUsers"`
}

// WinnerEntry is one ledger row
type WinnerEntry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// CreateGameResponse tells a participant its game and in-game identity
type CreateGameResponse struct {
	IDGame   string `json:"idGame"`
	IDPlayer string `json:"idPlayer"`
}

// AddShipsResponse acknowledges the first fleet
type AddShipsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StartGameResponse carries the recipient's own fleet
type StartGameResponse struct {
	Ships              []WireShip `json:"ships"`
	CurrentPlayerIndex string     `json:"currentPlayerIndex"`
}

// AttackResponse reports one resolved cell
type AttackResponse struct {
	Position      Position `json:"position"`
	CurrentPlayer string   `json:"currentPlayer"`
	Status        string   `json:"status"`
}

// TurnResponse names the player to move
type TurnResponse struct {
	CurrentPlayer string `json:"currentPlayer"`
}

// FinishResponse names the winner
type FinishResponse struct {
	WinPlayer string `json:"winPlayer"`
}

// ErrorResponse is sent to the originator when a request fails. It is
// framed with the type of the failed request.
type ErrorResponse struct {
	Error     bool   `json:"error"`
	ErrorText string `json:"errorText"`
	Code      string `json:"code"`
}

// NewErrorResponse builds an error reply
func NewErrorResponse(code, text string) ErrorResponse {
	return ErrorResponse{Error: true, ErrorText: text, Code: code}
}

// RoomsFromModel converts the room list. Never nil, so it encodes as [].
func RoomsFromModel(rooms []model.Room) []RoomEntry {
	entries := make([]RoomEntry, 0, len(rooms))
	for _, room := range rooms {
		users := make([]RoomUser, 0, 1)
		for _, p := range room.Occupants() {
			users = append(users, RoomUser{Name: p.Name, Index: string(p.ID)})
		}
		entries = append(entries, RoomEntry{RoomID: string(room.ID), RoomUsers: users})
	}
	return entries
}

// WinnersFromModel converts a ledger snapshot. Never nil.
func WinnersFromModel(winners []model.WinnerEntry) []WinnerEntry {
	entries := make([]WinnerEntry, 0, len(winners))
	for _, w := range winners {
		entries = append(entries, WinnerEntry{Name: w.Name, Wins: w.Wins})
	}
	return entries
}

// ShipFromModel converts a ship to its wire shape
func ShipFromModel(s model.Ship) WireShip {
	return WireShip{
		Position:  Position{X: s.Anchor.X, Y: s.Anchor.Y},
		Direction: s.Orientation == model.Vertical,
		Length:    s.Length,
		Type:      string(s.Kind),
	}
}

// FromEvent maps a domain event to its message type and wire payload
func FromEvent(event model.Event) (string, any, error) {
	switch p := event.Payload.(type) {
	case model.RoomListPayload:
		return TypeUpdateRoom, RoomsFromModel(p.Rooms), nil

	case model.WinnersPayload:
		return TypeUpdateWinners, WinnersFromModel(p.Winners), nil

	case model.CreateGamePayload:
		return TypeCreateGame, CreateGameResponse{IDGame: string(p.GameID), IDPlayer: string(p.PlayerID)}, nil

	case model.FleetAcceptedPayload:
		return TypeAddShips, AddShipsResponse{Success: true, Message: p.Message}, nil

	case model.StartGamePayload:
		ships := make([]WireShip, len(p.Ships))
		for i, s := range p.Ships {
			ships[i] = ShipFromModel(s)
		}
		return TypeStartGame, StartGameResponse{Ships: ships, CurrentPlayerIndex: string(p.CurrentPlayer)}, nil

	case model.AttackPayload:
		return TypeAttack, AttackResponse{
			Position:      Position{X: p.Position.X, Y: p.Position.Y},
			CurrentPlayer: string(p.CurrentPlayer),
			Status:        string(p.Status),
		}, nil

	case model.TurnPayload:
		return TypeTurn, TurnResponse{CurrentPlayer: string(p.CurrentPlayer)}, nil

	case model.FinishPayload:
		return TypeFinish, FinishResponse{WinPlayer: string(p.Winner)}, nil

	default:
		return "", nil, fmt.Errorf("no wire form for %s event payload %T", event.Type, event.Payload)
	}
}

// EncodeEvent frames a domain event
func EncodeEvent(event model.Event) ([]byte, error) {
	msgType, payload, err := FromEvent(event)
	if err != nil {
		return nil, err
	}
	return Encode(msgType, payload)
}
