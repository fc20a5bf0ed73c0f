package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/board"
	"github.com/mcoot/seabattle-go/internal/services/bot"
	"github.com/mcoot/seabattle-go/internal/services/presence"
	"github.com/mcoot/seabattle-go/internal/services/winners"
)

// FleetAcceptedMessage is sent to the first player to submit a fleet
const FleetAcceptedMessage = "Ships placed, waiting for the opponent"

// Notifier delivers events produced outside a request, such as bot moves
type Notifier interface {
	Notify(ctx context.Context, events []model.Event)
}

// Config holds game timing settings
type Config struct {
	// BotMoveDelay is how long a bot "thinks" before each attack
	BotMoveDelay time.Duration
	// FinishedRetention is how long a finished game stays readable before it is dropped
	FinishedRetention time.Duration
}

// DefaultConfig returns the default game configuration
func DefaultConfig() Config {
	return Config{
		BotMoveDelay:      time.Second,
		FinishedRetention: 5 * time.Minute,
	}
}

// session guards one game. Every check-and-mutate sequence runs under mu.
type session struct {
	mu   sync.Mutex
	game *model.Game
}

// Controller manages the game state machine and turn flow
type Controller struct {
	boardService *board.Service
	botService   *bot.Service
	scheduler    *bot.Scheduler
	ledger       *winners.Ledger
	presence     *presence.Tracker
	clock        clock.Clock
	random       random.Random
	logger       *slog.Logger
	cfg          Config

	notifierMu sync.RWMutex
	notifier   Notifier

	mu       sync.RWMutex
	sessions map[model.GameID]*session
}

// NewController creates a new GameController
func NewController(
	boardService *board.Service,
	botService *bot.Service,
	scheduler *bot.Scheduler,
	ledger *winners.Ledger,
	tracker *presence.Tracker,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if cfg.FinishedRetention <= 0 {
		cfg.FinishedRetention = DefaultConfig().FinishedRetention
	}
	return &Controller{
		boardService: boardService,
		botService:   botService,
		scheduler:    scheduler,
		ledger:       ledger,
		presence:     tracker,
		clock:        clock,
		random:       random,
		logger:       logger.With(slog.String("component", "game-controller")),
		cfg:          cfg,
		sessions:     make(map[model.GameID]*session),
	}
}

// SetNotifier installs the sink for events produced by bot moves
func (c *Controller) SetNotifier(n Notifier) {
	c.notifierMu.Lock()
	defer c.notifierMu.Unlock()
	c.notifier = n
}

// CreateGame starts a game between two players. Bot participants get
// their fleet immediately.
func (c *Controller) CreateGame(ctx context.Context, p1, p2 model.Player) (model.GameSummary, []model.Event, error) {
	if p1.ID == p2.ID {
		return model.GameSummary{}, nil, model.ErrAlreadyInRoom
	}

	gameID := model.GameID(c.random.UUID())
	game := model.NewGame(gameID, p1, p2, c.clock.Now())

	for _, p := range game.Players {
		if !p.IsBot {
			continue
		}
		ships, err := c.botService.PlaceFleet(p)
		if err != nil {
			return model.GameSummary{}, nil, err
		}
		if err := c.boardService.ValidateFleet(ships); err != nil {
			return model.GameSummary{}, nil, err
		}
		if err := c.boardService.ValidateSpacing(ships); err != nil {
			return model.GameSummary{}, nil, err
		}
		game.Boards[p.ID].PlaceFleet(ships)
	}

	c.mu.Lock()
	c.sessions[gameID] = &session{game: game}
	c.mu.Unlock()
	c.presence.EnterGame(gameID, p1.ID, p2.ID)

	var events []model.Event
	for _, p := range game.Players {
		if p.IsBot {
			continue
		}
		events = append(events, model.Event{
			Type:    model.EventCreateGame,
			Targets: []model.PlayerID{p.ID},
			GameID:  gameID,
			Payload: model.CreateGamePayload{GameID: gameID, PlayerID: p.ID},
		})
	}

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.String("player_1", string(p1.ID)),
		slog.String("player_2", string(p2.ID)),
		slog.Bool("single_player", game.HasBot()),
	)

	return game.Summary(), events, nil
}

// GetGame returns a snapshot of a game
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (model.GameSummary, error) {
	s, err := c.session(gameID)
	if err != nil {
		return model.GameSummary{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Summary(), nil
}

// GameCount returns the number of games held in memory, finished ones included
func (c *Controller) GameCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// SubmitFleet records a player's fleet. When both fleets are in, play
// starts with a uniformly random first player.
func (c *Controller) SubmitFleet(ctx context.Context, gameID model.GameID, playerID model.PlayerID, ships []model.Ship) ([]model.Event, error) {
	s, err := c.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	game := s.game

	if !game.IsParticipant(playerID) {
		return nil, model.ErrNotInGame
	}
	switch game.Status {
	case model.GameStatusFinished:
		return nil, model.ErrSessionFinished
	case model.GameStatusInProgress:
		return nil, model.ErrFleetAlreadySubmitted
	}

	playerBoard := game.Boards[playerID]
	if playerBoard.HasFleet() {
		return nil, model.ErrFleetAlreadySubmitted
	}
	if err := c.boardService.ValidateFleet(ships); err != nil {
		return nil, err
	}

	playerBoard.PlaceFleet(ships)
	game.UpdatedAt = c.clock.Now()

	c.logger.Debug("fleet submitted",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
	)

	if !game.BothFleetsPlaced() {
		return []model.Event{{
			Type:    model.EventAddShips,
			Targets: []model.PlayerID{playerID},
			GameID:  gameID,
			Payload: model.FleetAcceptedPayload{PlayerID: playerID, Message: FleetAcceptedMessage},
		}}, nil
	}

	return c.startLocked(game), nil
}

// startLocked moves a game with both fleets into play
func (c *Controller) startLocked(game *model.Game) []model.Event {
	game.Status = model.GameStatusInProgress
	game.CurrentTurn = game.Players[c.random.Intn(2)].ID
	game.UpdatedAt = c.clock.Now()

	var events []model.Event
	for _, p := range game.Players {
		if p.IsBot {
			continue
		}
		events = append(events, model.Event{
			Type:    model.EventStartGame,
			Targets: []model.PlayerID{p.ID},
			GameID:  game.ID,
			Payload: model.StartGamePayload{
				Ships:         game.Boards[p.ID].Ships,
				CurrentPlayer: game.CurrentTurn,
			},
		})
	}
	events = append(events, c.toParticipants(game, model.EventTurn, model.TurnPayload{CurrentPlayer: game.CurrentTurn}))

	c.logger.Info("game started",
		slog.String("game_id", string(game.ID)),
		slog.String("first_player", string(game.CurrentTurn)),
	)

	c.scheduleBotLocked(game)
	return events
}

// Attack fires at (target) on the opponent's board
func (c *Controller) Attack(ctx context.Context, gameID model.GameID, attackerID model.PlayerID, target model.Coordinate) ([]model.Event, error) {
	s, err := c.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := c.checkTurnLocked(s.game, attackerID); err != nil {
		return nil, err
	}
	return c.attackLocked(ctx, s.game, attackerID, target)
}

// RandomAttack fires at a uniformly chosen untried cell of the opponent's board
func (c *Controller) RandomAttack(ctx context.Context, gameID model.GameID, attackerID model.PlayerID) ([]model.Event, error) {
	s, err := c.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	game := s.game

	if err := c.checkTurnLocked(game, attackerID); err != nil {
		return nil, err
	}
	defender := game.Opponent(attackerID)
	target, err := c.boardService.RandomTarget(game.Boards[defender.ID], c.random.Intn)
	if err != nil {
		return nil, err
	}
	return c.attackLocked(ctx, game, attackerID, target)
}

// BotAttack lets a bot participant choose and fire its next shot
func (c *Controller) BotAttack(ctx context.Context, gameID model.GameID, botID model.PlayerID) ([]model.Event, error) {
	s, err := c.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	game := s.game

	if err := c.checkTurnLocked(game, botID); err != nil {
		return nil, err
	}
	botPlayer, _ := game.Player(botID)
	defender := game.Opponent(botID)
	target, err := c.botService.ChooseTarget(botPlayer, game.Boards[defender.ID])
	if err != nil {
		return nil, err
	}
	return c.attackLocked(ctx, game, botID, target)
}

func (c *Controller) checkTurnLocked(game *model.Game, attackerID model.PlayerID) error {
	if !game.IsParticipant(attackerID) {
		return model.ErrNotInGame
	}
	switch game.Status {
	case model.GameStatusFinished:
		return model.ErrSessionFinished
	case model.GameStatusAwaitingFleets:
		return model.ErrGameNotStarted
	}
	if game.CurrentTurn != attackerID {
		return model.ErrNotYourTurn
	}
	return nil
}

// attackLocked resolves one shot. A miss passes the turn; a hit or kill keeps it.
func (c *Controller) attackLocked(ctx context.Context, game *model.Game, attackerID model.PlayerID, target model.Coordinate) ([]model.Event, error) {
	defender := game.Opponent(attackerID)
	result, err := c.boardService.Fire(game.Boards[defender.ID], target)
	if err != nil {
		return nil, err
	}
	game.UpdatedAt = c.clock.Now()

	events := []model.Event{c.toParticipants(game, model.EventAttack, model.AttackPayload{
		Position:      result.Target,
		CurrentPlayer: attackerID,
		Status:        result.Outcome,
	})}
	for _, cell := range result.AutoMisses {
		events = append(events, c.toParticipants(game, model.EventAttack, model.AttackPayload{
			Position:      cell,
			CurrentPlayer: attackerID,
			Status:        model.OutcomeMiss,
		}))
	}

	if result.Defeated {
		return append(events, c.finishLocked(ctx, game, attackerID, false)...), nil
	}

	if result.Outcome == model.OutcomeMiss {
		game.CurrentTurn = defender.ID
		events = append(events, c.toParticipants(game, model.EventTurn, model.TurnPayload{CurrentPlayer: game.CurrentTurn}))
	}

	c.scheduleBotLocked(game)
	return events, nil
}

// Forfeit ends an unfinished game in the opponent's favour
func (c *Controller) Forfeit(ctx context.Context, gameID model.GameID, loserID model.PlayerID) ([]model.Event, error) {
	s, err := c.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	game := s.game

	if !game.IsParticipant(loserID) {
		return nil, model.ErrNotInGame
	}
	if game.Status == model.GameStatusFinished {
		return nil, nil
	}

	winner := game.Opponent(loserID)
	c.logger.Info("game forfeited",
		slog.String("game_id", string(gameID)),
		slog.String("loser", string(loserID)),
	)
	return c.finishLocked(ctx, game, winner.ID, true), nil
}

// ForfeitActive forfeits whichever game the player is currently in, if any
func (c *Controller) ForfeitActive(ctx context.Context, playerID model.PlayerID) ([]model.Event, error) {
	gameID := c.presence.Locate(playerID).GameID
	if gameID == "" {
		return nil, nil
	}
	return c.Forfeit(ctx, gameID, playerID)
}

// finishLocked records the result, releases both players and schedules the
// session for removal
func (c *Controller) finishLocked(ctx context.Context, game *model.Game, winnerID model.PlayerID, forfeit bool) []model.Event {
	now := c.clock.Now()
	game.Status = model.GameStatusFinished
	game.Winner = winnerID
	game.Forfeit = forfeit
	game.UpdatedAt = now
	game.FinishedAt = now

	c.scheduler.Cancel(game.ID)

	events := []model.Event{c.toParticipants(game, model.EventFinish, model.FinishPayload{Winner: winnerID, Forfeit: forfeit})}

	winner, _ := game.Player(winnerID)
	if !winner.IsBot {
		if _, err := c.ledger.RecordWin(ctx, winner.Name); err != nil {
			c.logger.Error("failed to record win",
				slog.String("game_id", string(game.ID)),
				slog.String("winner", winner.Name),
				slog.String("error", err.Error()),
			)
		}
	}
	if snapshot, err := c.ledger.Snapshot(ctx); err != nil {
		c.logger.Error("failed to read winners", slog.String("error", err.Error()))
	} else {
		events = append(events, model.Broadcast(model.EventUpdateWinners, model.WinnersPayload{Winners: snapshot}))
	}

	c.presence.LeaveGame(game.ID, game.Players[0].ID, game.Players[1].ID)
	for _, p := range game.Players {
		if !p.IsBot {
			continue
		}
		if err := c.botService.RemoveBotPlayer(ctx, p.ID); err != nil {
			c.logger.Warn("failed to remove bot", slog.String("bot_id", string(p.ID)), slog.String("error", err.Error()))
		}
	}

	gameID := game.ID
	c.clock.AfterFunc(c.cfg.FinishedRetention, func() {
		c.mu.Lock()
		delete(c.sessions, gameID)
		c.mu.Unlock()
	})

	c.logger.Info("game finished",
		slog.String("game_id", string(game.ID)),
		slog.String("winner", string(winnerID)),
		slog.Bool("forfeit", forfeit),
	)
	return events
}

// scheduleBotLocked queues the bot's next shot when it holds the turn
func (c *Controller) scheduleBotLocked(game *model.Game) {
	if game.Status != model.GameStatusInProgress {
		return
	}
	current, _ := game.Player(game.CurrentTurn)
	if !current.IsBot {
		return
	}
	gameID, botID := game.ID, current.ID
	c.scheduler.Schedule(gameID, c.cfg.BotMoveDelay, func() {
		c.playBotTurn(gameID, botID)
	})
}

func (c *Controller) playBotTurn(gameID model.GameID, botID model.PlayerID) {
	ctx := context.Background()
	events, err := c.BotAttack(ctx, gameID, botID)
	if err != nil {
		c.logger.Warn("bot move failed",
			slog.String("game_id", string(gameID)),
			slog.String("bot_id", string(botID)),
			slog.String("error", err.Error()),
		)
		return
	}

	c.notifierMu.RLock()
	n := c.notifier
	c.notifierMu.RUnlock()
	if n != nil {
		n.Notify(ctx, events)
	}
}

// toParticipants addresses an event to the human players of a game
func (c *Controller) toParticipants(game *model.Game, eventType model.EventType, payload any) model.Event {
	var targets []model.PlayerID
	for _, p := range game.Players {
		if !p.IsBot {
			targets = append(targets, p.ID)
		}
	}
	return model.Event{Type: eventType, Targets: targets, GameID: game.ID, Payload: payload}
}

func (c *Controller) session(gameID model.GameID) (*session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[gameID]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return s, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, p1, p2 model.Player) (model.GameSummary, []model.Event, error)
	GetGame(ctx context.Context, gameID model.GameID) (model.GameSummary, error)
	SubmitFleet(ctx context.Context, gameID model.GameID, playerID model.PlayerID, ships []model.Ship) ([]model.Event, error)
	Attack(ctx context.Context, gameID model.GameID, attackerID model.PlayerID, target model.Coordinate) ([]model.Event, error)
	RandomAttack(ctx context.Context, gameID model.GameID, attackerID model.PlayerID) ([]model.Event, error)
	Forfeit(ctx context.Context, gameID model.GameID, loserID model.PlayerID) ([]model.Event, error)
	ForfeitActive(ctx context.Context, playerID model.PlayerID) ([]model.Event, error)
}

var _ ControllerInterface = (*Controller)(nil)
