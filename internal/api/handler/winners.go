package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/seabattle-go/internal/api/apierr"
	"github.com/mcoot/seabattle-go/internal/api/response"
	"github.com/mcoot/seabattle-go/internal/services/winners"
)

// WinnersHandler serves the winners table
type WinnersHandler struct {
	ledger *winners.Ledger
	logger *slog.Logger
}

// NewWinnersHandler creates a new winners handler
func NewWinnersHandler(ledger *winners.Ledger, logger *slog.Logger) *WinnersHandler {
	return &WinnersHandler{ledger: ledger, logger: logger}
}

// List handles GET /api/v1/winners
func (h *WinnersHandler) List(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("failed to read winners", slog.String("error", err.Error()))
		WriteError(w, apierr.NewInternalError())
		return
	}
	response.JSON(w, http.StatusOK, response.WinnerListFromModel(snapshot))
}
