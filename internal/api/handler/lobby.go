package handler

import (
	"net/http"

	"github.com/mcoot/seabattle-go/internal/api/response"
	"github.com/mcoot/seabattle-go/internal/services/lobby"
)

// LobbyHandler serves the open room list
type LobbyHandler struct {
	lobbyController *lobby.Controller
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(lobbyController *lobby.Controller) *LobbyHandler {
	return &LobbyHandler{lobbyController: lobbyController}
}

// ListRooms handles GET /api/v1/rooms
func (h *LobbyHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := []response.Room{}
	for room := range h.lobbyController.ListOpenRooms() {
		rooms = append(rooms, response.RoomFromModel(room))
	}
	response.JSON(w, http.StatusOK, response.RoomList{Rooms: rooms})
}
