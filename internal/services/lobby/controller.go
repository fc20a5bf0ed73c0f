package lobby

import (
	"context"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/bot"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/presence"
)

// promotedRoomRetention is how long a promoted room id keeps answering RoomFull
const promotedRoomRetention = time.Minute

// Controller is the matchmaker: it holds open rooms and promotes them to games
type Controller struct {
	gameController *game.Controller
	botService     *bot.Service
	presence       *presence.Tracker
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger

	// mu serializes every check-and-promote sequence
	mu       sync.Mutex
	rooms    map[model.RoomID]*model.Room
	order    []model.RoomID
	promoted map[model.RoomID]struct{}
}

// NewController creates a new LobbyController
func NewController(
	gameController *game.Controller,
	botService *bot.Service,
	tracker *presence.Tracker,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		gameController: gameController,
		botService:     botService,
		presence:       tracker,
		clock:          clock,
		random:         random,
		logger:         logger.With(slog.String("component", "lobby-controller")),
		rooms:          make(map[model.RoomID]*model.Room),
		promoted:       make(map[model.RoomID]struct{}),
	}
}

// CreateRoom opens a room with the given player waiting in it
func (c *Controller) CreateRoom(ctx context.Context, host model.Player) (*model.Room, []model.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	roomID := model.RoomID(c.random.UUID())
	if err := c.presence.EnterRoom(host.ID, roomID); err != nil {
		return nil, nil, err
	}

	room := &model.Room{
		ID:        roomID,
		Host:      host,
		CreatedAt: c.clock.Now(),
	}
	c.rooms[roomID] = room
	c.order = append(c.order, roomID)

	c.logger.Info("room created",
		slog.String("room_id", string(roomID)),
		slog.String("host", string(host.ID)),
	)

	copied := *room
	return &copied, []model.Event{c.roomListEventLocked()}, nil
}

// JoinRoom promotes a room to a game between its host and the joiner. The
// joiner's own open room, if any, is closed.
func (c *Controller) JoinRoom(ctx context.Context, roomID model.RoomID, player model.Player) (model.GameSummary, []model.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[roomID]
	if !ok {
		if _, wasPromoted := c.promoted[roomID]; wasPromoted {
			return model.GameSummary{}, nil, model.ErrRoomFull
		}
		return model.GameSummary{}, nil, model.ErrRoomNotFound
	}
	if room.Host.ID == player.ID {
		return model.GameSummary{}, nil, model.ErrAlreadyInRoom
	}

	loc := c.presence.Locate(player.ID)
	if loc.GameID != "" {
		return model.GameSummary{}, nil, model.ErrAlreadyInRoomOrGame
	}

	summary, events, err := c.gameController.CreateGame(ctx, room.Host, player)
	if err != nil {
		return model.GameSummary{}, nil, err
	}

	c.removeRoomLocked(roomID)
	c.markPromotedLocked(roomID)
	if loc.RoomID != "" {
		c.removeRoomLocked(loc.RoomID)
	}

	c.logger.Info("room promoted",
		slog.String("room_id", string(roomID)),
		slog.String("game_id", string(summary.ID)),
	)

	return summary, append(events, c.roomListEventLocked()), nil
}

// StartSinglePlay starts a game between the player and a freshly created bot
func (c *Controller) StartSinglePlay(ctx context.Context, player model.Player) (model.GameSummary, []model.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	loc := c.presence.Locate(player.ID)
	if loc.GameID != "" {
		return model.GameSummary{}, nil, model.ErrAlreadyInRoomOrGame
	}

	botPlayer, err := c.botService.CreateBotPlayer(ctx, "")
	if err != nil {
		return model.GameSummary{}, nil, err
	}

	summary, events, err := c.gameController.CreateGame(ctx, player, *botPlayer)
	if err != nil {
		if rmErr := c.botService.RemoveBotPlayer(ctx, botPlayer.ID); rmErr != nil {
			c.logger.Warn("failed to remove bot", slog.String("bot_id", string(botPlayer.ID)), slog.String("error", rmErr.Error()))
		}
		return model.GameSummary{}, nil, err
	}

	if loc.RoomID != "" {
		c.removeRoomLocked(loc.RoomID)
		events = append(events, c.roomListEventLocked())
	}

	c.logger.Info("single play started",
		slog.String("game_id", string(summary.ID)),
		slog.String("player", string(player.ID)),
		slog.String("bot", string(botPlayer.ID)),
	)
	return summary, events, nil
}

// LeaveRooms closes any room the player is waiting in. Returns a room-list
// event when something changed.
func (c *Controller) LeaveRooms(ctx context.Context, playerID model.PlayerID) []model.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	roomID := c.presence.Locate(playerID).RoomID
	if roomID == "" {
		return nil
	}
	if _, ok := c.rooms[roomID]; !ok {
		return nil
	}
	c.removeRoomLocked(roomID)

	c.logger.Info("room closed", slog.String("room_id", string(roomID)), slog.String("host", string(playerID)))
	return []model.Event{c.roomListEventLocked()}
}

// ListOpenRooms yields the rooms waiting for an opponent, oldest first.
// The sequence reads a snapshot, so it can be ranged over more than once
// and never blocks the matchmaker while the caller consumes it.
func (c *Controller) ListOpenRooms() iter.Seq[model.Room] {
	return func(yield func(model.Room) bool) {
		for _, room := range c.snapshot() {
			if !yield(room) {
				return
			}
		}
	}
}

// RoomCount returns the number of open rooms
func (c *Controller) RoomCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rooms)
}

// RoomListEvent builds an update_room broadcast from the current rooms
func (c *Controller) RoomListEvent() model.Event {
	return model.Broadcast(model.EventUpdateRoom, model.RoomListPayload{Rooms: slices.Collect(c.ListOpenRooms())})
}

func (c *Controller) snapshot() []model.Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() []model.Room {
	rooms := make([]model.Room, 0, len(c.order))
	for _, id := range c.order {
		if room, ok := c.rooms[id]; ok && room.IsOpen() {
			rooms = append(rooms, *room)
		}
	}
	return rooms
}

func (c *Controller) roomListEventLocked() model.Event {
	return model.Broadcast(model.EventUpdateRoom, model.RoomListPayload{Rooms: c.snapshotLocked()})
}

func (c *Controller) removeRoomLocked(roomID model.RoomID) {
	room, ok := c.rooms[roomID]
	if !ok {
		return
	}
	delete(c.rooms, roomID)
	c.order = slices.DeleteFunc(c.order, func(id model.RoomID) bool { return id == roomID })
	c.presence.LeaveRoom(room.Host.ID, roomID)
}

func (c *Controller) markPromotedLocked(roomID model.RoomID) {
	c.promoted[roomID] = struct{}{}
	c.clock.AfterFunc(promotedRoomRetention, func() {
		c.mu.Lock()
		delete(c.promoted, roomID)
		c.mu.Unlock()
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, host model.Player) (*model.Room, []model.Event, error)
	JoinRoom(ctx context.Context, roomID model.RoomID, player model.Player) (model.GameSummary, []model.Event, error)
	StartSinglePlay(ctx context.Context, player model.Player) (model.GameSummary, []model.Event, error)
	LeaveRooms(ctx context.Context, playerID model.PlayerID) []model.Event
	ListOpenRooms() iter.Seq[model.Room]
	RoomListEvent() model.Event
}

var _ ControllerInterface = (*Controller)(nil)
