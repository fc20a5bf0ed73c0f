package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/seabattle-go/internal/middleware"
)

// Logging creates request logging middleware for the API.
// Websocket upgrades are logged once the connection is hijacked.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "http")))
}
