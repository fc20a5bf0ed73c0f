package handler

import (
	"net/http"

	"github.com/mcoot/seabattle-go/internal/api/response"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/lobby"
	"github.com/mcoot/seabattle-go/internal/services/registry"
)

// ConnectionCounter reports open transport connections
type ConnectionCounter interface {
	ClientCount() int
}

// HealthHandler reports liveness with a few load counters
type HealthHandler struct {
	lobbyController *lobby.Controller
	gameController  *game.Controller
	registry        *registry.Service
	connections     ConnectionCounter
}

// NewHealthHandler creates a new health handler. connections may be nil.
func NewHealthHandler(lobbyController *lobby.Controller, gameController *game.Controller, registry *registry.Service, connections ConnectionCounter) *HealthHandler {
	return &HealthHandler{
		lobbyController: lobbyController,
		gameController:  gameController,
		registry:        registry,
		connections:     connections,
	}
}

// Check handles GET /api/v1/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	health := response.Health{
		Status:        "ok",
		OpenRooms:     h.lobbyController.RoomCount(),
		Games:         h.gameController.GameCount(),
		OnlinePlayers: h.registry.OnlineCount(),
	}
	if h.connections != nil {
		health.Connections = h.connections.ClientCount()
	}
	response.JSON(w, http.StatusOK, health)
}
