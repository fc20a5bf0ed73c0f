// Package dispatch turns decoded websocket requests into controller calls
// and delivers the resulting events.
package dispatch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/seabattle-go/internal/api/apierr"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/protocol"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/lobby"
	"github.com/mcoot/seabattle-go/internal/services/registry"
	"github.com/mcoot/seabattle-go/internal/services/winners"
)

// Sender delivers encoded frames to connections
type Sender interface {
	Broadcast(frame []byte)
	SendTo(playerID model.PlayerID, frame []byte) bool
	SendConn(connID string, frame []byte) bool
	Bind(connID string, playerID model.PlayerID)
}

// Router handles every inbound message and connection close
type Router struct {
	registry *registry.Service
	lobby    *lobby.Controller
	games    *game.Controller
	ledger   *winners.Ledger
	sender   Sender
	logger   *slog.Logger
}

// NewRouter creates a new Router
func NewRouter(
	registry *registry.Service,
	lobby *lobby.Controller,
	games *game.Controller,
	ledger *winners.Ledger,
	sender Sender,
	logger *slog.Logger,
) *Router {
	return &Router{
		registry: registry,
		lobby:    lobby,
		games:    games,
		ledger:   ledger,
		sender:   sender,
		logger:   logger.With(slog.String("component", "dispatch")),
	}
}

// HandleMessage decodes and executes one inbound frame. Failures go back to
// the originating connection only; malformed frames are dropped.
func (r *Router) HandleMessage(ctx context.Context, connID string, raw []byte) {
	env, err := protocol.Decode(raw)
	if err != nil {
		r.logger.Warn("dropping malformed frame", slog.String("conn_id", connID), slog.String("error", err.Error()))
		return
	}

	req, err := protocol.ParseRequest(env)
	if err != nil {
		if errors.Is(err, model.ErrMalformedMessage) {
			r.logger.Warn("dropping malformed message",
				slog.String("conn_id", connID),
				slog.String("type", env.Type),
				slog.String("error", err.Error()))
			return
		}
		r.replyError(connID, env.Type, err)
		return
	}

	if reg, ok := req.(protocol.RegRequest); ok {
		r.handleReg(ctx, connID, reg)
		return
	}

	session, err := r.registry.SessionFor(connID)
	if err != nil {
		r.replyError(connID, env.Type, err)
		return
	}

	events, err := r.execute(ctx, session.Player, req)
	if err != nil {
		r.logger.Debug("request rejected",
			slog.String("conn_id", connID),
			slog.String("player_id", string(session.Player.ID)),
			slog.String("type", env.Type),
			slog.String("error", err.Error()))
		r.replyError(connID, env.Type, err)
		return
	}
	r.Notify(ctx, events)
}

func (r *Router) execute(ctx context.Context, player model.Player, req protocol.Request) ([]model.Event, error) {
	switch req := req.(type) {
	case protocol.CreateRoomRequest:
		_, events, err := r.lobby.CreateRoom(ctx, player)
		return events, err

	case protocol.JoinRoomRequest:
		_, events, err := r.lobby.JoinRoom(ctx, model.RoomID(req.IndexRoom), player)
		return events, err

	case protocol.SinglePlayRequest:
		_, events, err := r.lobby.StartSinglePlay(ctx, player)
		return events, err

	case protocol.AddShipsRequest:
		if err := checkIndexPlayer(req.IndexPlayer, player); err != nil {
			return nil, err
		}
		return r.games.SubmitFleet(ctx, model.GameID(req.GameID), player.ID, req.FleetToModel())

	case protocol.AttackRequest:
		if err := checkIndexPlayer(req.IndexPlayer, player); err != nil {
			return nil, err
		}
		return r.games.Attack(ctx, model.GameID(req.GameID), player.ID, req.Target())

	case protocol.RandomAttackRequest:
		if err := checkIndexPlayer(req.IndexPlayer, player); err != nil {
			return nil, err
		}
		return r.games.RandomAttack(ctx, model.GameID(req.GameID), player.ID)

	default:
		return nil, model.ErrUnknownMessageType
	}
}

// checkIndexPlayer rejects requests that name someone other than the
// connection's own player. An empty index means the caller.
func checkIndexPlayer(index protocol.FlexibleID, player model.Player) error {
	if index != "" && model.PlayerID(index) != player.ID {
		return model.ErrNotInGame
	}
	return nil
}

func (r *Router) handleReg(ctx context.Context, connID string, req protocol.RegRequest) {
	session, displaced, err := r.registry.Login(ctx, connID, req.Name, req.Password)
	if err != nil {
		_, apiErr := apierr.Describe(err)
		r.sendConn(connID, protocol.TypeReg, protocol.RegResponse{
			Name:      req.Name,
			Error:     true,
			ErrorText: apiErr.Message,
			Code:      apiErr.Code,
		})
		return
	}

	r.sender.Bind(connID, session.Player.ID)
	r.sendConn(connID, protocol.TypeReg, protocol.RegResponse{
		Name:  session.Player.Name,
		Index: string(session.Player.ID),
	})

	r.logger.Info("player registered",
		slog.String("conn_id", connID),
		slog.String("player_id", string(session.Player.ID)),
		slog.String("name", session.Player.Name))

	var events []model.Event
	if displaced != nil {
		// The connection changed identity; the previous player leaves as if it disconnected
		events = r.release(ctx, displaced.ID)
		r.logger.Info("player replaced on connection",
			slog.String("conn_id", connID),
			slog.String("player_id", string(displaced.ID)))
	}
	events = append(events, r.lobby.RoomListEvent())
	if snapshot, err := r.ledger.Snapshot(ctx); err != nil {
		r.logger.Error("failed to read winners", slog.String("error", err.Error()))
	} else {
		events = append(events, model.Broadcast(model.EventUpdateWinners, model.WinnersPayload{Winners: snapshot}))
	}
	r.Notify(ctx, events)
}

// HandleDisconnect releases the connection's player: its open room closes
// and an unfinished game is forfeited
func (r *Router) HandleDisconnect(ctx context.Context, connID string) {
	session := r.registry.Logout(connID)
	if session == nil {
		return
	}
	playerID := session.Player.ID
	events := r.release(ctx, playerID)

	r.logger.Info("player disconnected", slog.String("conn_id", connID), slog.String("player_id", string(playerID)))
	r.Notify(ctx, events)
}

func (r *Router) release(ctx context.Context, playerID model.PlayerID) []model.Event {
	events := r.lobby.LeaveRooms(ctx, playerID)
	forfeitEvents, err := r.games.ForfeitActive(ctx, playerID)
	if err != nil {
		r.logger.Error("failed to forfeit player",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()))
	}
	return append(events, forfeitEvents...)
}

// Notify encodes and delivers events. It also serves as the game
// controller's sink for bot moves.
func (r *Router) Notify(ctx context.Context, events []model.Event) {
	for _, event := range events {
		frame, err := protocol.EncodeEvent(event)
		if err != nil {
			r.logger.Error("failed to encode event", slog.String("type", string(event.Type)), slog.String("error", err.Error()))
			continue
		}
		if event.Broadcast {
			r.sender.Broadcast(frame)
			continue
		}
		for _, target := range event.Targets {
			if !r.sender.SendTo(target, frame) {
				r.logger.Debug("event not delivered",
					slog.String("type", string(event.Type)),
					slog.String("player_id", string(target)))
			}
		}
	}
}

func (r *Router) replyError(connID, msgType string, err error) {
	_, apiErr := apierr.Describe(err)
	if apiErr.Code == apierr.CodeInternalError {
		r.logger.Error("request failed", slog.String("conn_id", connID), slog.String("type", msgType), slog.String("error", err.Error()))
	}
	r.sendConn(connID, msgType, protocol.NewErrorResponse(apiErr.Code, apiErr.Message))
}

func (r *Router) sendConn(connID, msgType string, payload any) {
	frame, err := protocol.Encode(msgType, payload)
	if err != nil {
		r.logger.Error("failed to encode reply", slog.String("type", msgType), slog.String("error", err.Error()))
		return
	}
	r.sender.SendConn(connID, frame)
}

var _ game.Notifier = (*Router)(nil)
