package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/seabattle-go/internal/api/handler"
	"github.com/mcoot/seabattle-go/internal/api/middleware"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/lobby"
	"github.com/mcoot/seabattle-go/internal/services/registry"
	"github.com/mcoot/seabattle-go/internal/services/winners"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	LobbyController *lobby.Controller
	GameController  *game.Controller
	Registry        *registry.Service
	Ledger          *winners.Ledger

	// WSHandler serves the game protocol at /ws. Optional.
	WSHandler http.Handler
	// Connections feeds the health counters. Optional.
	Connections handler.ConnectionCounter
	// StaticDir is served at / when set
	StaticDir string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	lobbyHandler := handler.NewLobbyHandler(cfg.LobbyController)
	winnersHandler := handler.NewWinnersHandler(cfg.Ledger, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.GameController)
	healthHandler := handler.NewHealthHandler(cfg.LobbyController, cfg.GameController, cfg.Registry, cfg.Connections)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	if cfg.WSHandler != nil {
		r.Handle("/ws", recoveryMiddleware(loggingMiddleware(cfg.WSHandler))).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)
	api.HandleFunc("/rooms", lobbyHandler.ListRooms).Methods(http.MethodGet)
	api.HandleFunc("/winners", winnersHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)

	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir))).Methods(http.MethodGet)
	}

	return r
}
