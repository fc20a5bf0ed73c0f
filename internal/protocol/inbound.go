package protocol

import (
	"fmt"

	"github.com/mcoot/seabattle-go/internal/model"
)

// Request is a decoded inbound message. The concrete type identifies it.
type Request interface {
	MessageType() string
}

// RegRequest registers or logs in a player
type RegRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// CreateRoomRequest opens a room for the caller
type CreateRoomRequest struct{}

// JoinRoomRequest joins an open room
type JoinRoomRequest struct {
	IndexRoom FlexibleID `json:"indexRoom"`
}

// SinglePlayRequest starts a game against a bot
type SinglePlayRequest struct{}

// Position is a wire coordinate
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// WireShip is the client's ship shape. Direction true means vertical.
type WireShip struct {
	Position  Position `json:"position"`
	Direction bool     `json:"direction"`
	Length    int      `json:"length"`
	Type      string   `json:"type"`
}

// AddShipsRequest submits a fleet
type AddShipsRequest struct {
	GameID      FlexibleID `json:"gameId"`
	Ships       []WireShip `json:"ships"`
	IndexPlayer FlexibleID `json:"indexPlayer"`
}

// AttackRequest fires at one cell
type AttackRequest struct {
	GameID      FlexibleID `json:"gameId"`
	X           *int       `json:"x"`
	Y           *int       `json:"y"`
	IndexPlayer FlexibleID `json:"indexPlayer"`
}

// RandomAttackRequest fires at a random untried cell
type RandomAttackRequest struct {
	GameID      FlexibleID `json:"gameId"`
	IndexPlayer FlexibleID `json:"indexPlayer"`
}

func (RegRequest) MessageType() string          { return TypeReg }
func (CreateRoomRequest) MessageType() string   { return TypeCreateRoom }
func (JoinRoomRequest) MessageType() string     { return TypeAddUserToRoom }
func (SinglePlayRequest) MessageType() string   { return TypeSinglePlay }
func (AddShipsRequest) MessageType() string     { return TypeAddShips }
func (AttackRequest) MessageType() string       { return TypeAttack }
func (RandomAttackRequest) MessageType() string { return TypeRandomAttack }

// ParseRequest decodes the envelope payload into the request type named by
// env.Type. Shape problems are reported as ErrMalformedMessage.
func ParseRequest(env Envelope) (Request, error) {
	switch env.Type {
	case TypeReg:
		var req RegRequest
		if err := env.Unmarshal(&req); err != nil {
			return nil, err
		}
		return req, nil

	case TypeCreateRoom:
		return CreateRoomRequest{}, nil

	case TypeSinglePlay:
		return SinglePlayRequest{}, nil

	case TypeAddUserToRoom:
		var req JoinRoomRequest
		if err := env.Unmarshal(&req); err != nil {
			return nil, err
		}
		if req.IndexRoom == "" {
			return nil, fmt.Errorf("%w: missing indexRoom", model.ErrMalformedMessage)
		}
		return req, nil

	case TypeAddShips:
		var req AddShipsRequest
		if err := env.Unmarshal(&req); err != nil {
			return nil, err
		}
		if req.GameID == "" {
			return nil, fmt.Errorf("%w: missing gameId", model.ErrMalformedMessage)
		}
		return req, nil

	case TypeAttack:
		var req AttackRequest
		if err := env.Unmarshal(&req); err != nil {
			return nil, err
		}
		if req.GameID == "" || req.X == nil || req.Y == nil {
			return nil, fmt.Errorf("%w: attack needs gameId, x and y", model.ErrMalformedMessage)
		}
		return req, nil

	case TypeRandomAttack:
		var req RandomAttackRequest
		if err := env.Unmarshal(&req); err != nil {
			return nil, err
		}
		if req.GameID == "" {
			return nil, fmt.Errorf("%w: missing gameId", model.ErrMalformedMessage)
		}
		return req, nil

	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownMessageType, env.Type)
	}
}

// Target returns the attacked coordinate
func (r AttackRequest) Target() model.Coordinate {
	return model.Coordinate{X: *r.X, Y: *r.Y}
}

// ToModel converts a wire ship. The kind is derived from the length; the
// client-supplied type is informational only.
func (w WireShip) ToModel() model.Ship {
	orientation := model.Horizontal
	if w.Direction {
		orientation = model.Vertical
	}
	return model.Ship{
		Anchor:      model.Coordinate{X: w.Position.X, Y: w.Position.Y},
		Length:      w.Length,
		Orientation: orientation,
		Kind:        model.KindForLength(w.Length),
	}
}

// FleetToModel converts every ship of a submitted fleet
func (r AddShipsRequest) FleetToModel() []model.Ship {
	ships := make([]model.Ship, len(r.Ships))
	for i, w := range r.Ships {
		ships[i] = w.ToModel()
	}
	return ships
}
