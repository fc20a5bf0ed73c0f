package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/seabattle-go/internal/api"
	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/dispatch"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/board"
	"github.com/mcoot/seabattle-go/internal/services/bot"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/lobby"
	"github.com/mcoot/seabattle-go/internal/services/presence"
	"github.com/mcoot/seabattle-go/internal/services/registry"
	"github.com/mcoot/seabattle-go/internal/services/winners"
	"github.com/mcoot/seabattle-go/internal/storage"
	"github.com/mcoot/seabattle-go/internal/storage/memory"
	pgstorage "github.com/mcoot/seabattle-go/internal/storage/postgres"
	redisstorage "github.com/mcoot/seabattle-go/internal/storage/redis"
	"github.com/mcoot/seabattle-go/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService    *board.Service
	BotService      *bot.Service
	BotScheduler    *bot.Scheduler
	Presence        *presence.Tracker
	Ledger          *winners.Ledger
	Registry        *registry.Service
	GameController  *game.Controller
	LobbyController *lobby.Controller

	// Transport
	Hub    *ws.Hub
	Router *dispatch.Router

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds PostgreSQL settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config

	Registry registry.Config
	Game     game.Config
	WS       ws.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := pgstorage.New(ctx, *cfg.PostgresConfig, logger)
		if err != nil {
			return nil, err
		}
		store = pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	if cfg.WS.PongWait == 0 {
		cfg.WS = ws.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	boardService := board.New(logger)
	strategies := map[string]bot.Strategy{
		model.BotStrategyRandom: bot.NewRandomStrategy(rnd),
	}
	botService := bot.NewService(store, strategies, model.BotStrategyRandom, clk, rnd, logger)
	scheduler := bot.NewScheduler(clk)
	tracker := presence.New()
	ledger := winners.New(store, logger)
	registryService := registry.New(store, clk, rnd, cfg.Registry, logger)

	gameController := game.NewController(boardService, botService, scheduler, ledger, tracker, clk, rnd, cfg.Game, logger)
	lobbyController := lobby.NewController(gameController, botService, tracker, clk, rnd, logger)

	hub := ws.NewHub(cfg.WS, rnd, logger)
	router := dispatch.NewRouter(registryService, lobbyController, gameController, ledger, hub, logger)
	gameController.SetNotifier(router)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		BoardService:    boardService,
		BotService:      botService,
		BotScheduler:    scheduler,
		Presence:        tracker,
		Ledger:          ledger,
		Registry:        registryService,
		GameController:  gameController,
		LobbyController: lobbyController,
		Hub:             hub,
		Router:          router,
		logger:          logger,
	}
}

// Handler builds the HTTP surface: the websocket endpoint and the read API
func (a *App) Handler(staticDir string) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:          a.logger,
		LobbyController: a.LobbyController,
		GameController:  a.GameController,
		Registry:        a.Registry,
		Ledger:          a.Ledger,
		WSHandler:       a.Hub.Handler(a.Router),
		Connections:     a.Hub,
		StaticDir:       staticDir,
	})
}

// Close stops pending bot moves, drops every connection and releases storage
func (a *App) Close() error {
	a.BotScheduler.CancelAll()
	a.Hub.Close()
	return a.Storage.Close()
}
