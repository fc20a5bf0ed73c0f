package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/seabattle-go/internal/api/apierr"
	"github.com/mcoot/seabattle-go/internal/middleware"
)

// Recovery answers a panicking API handler with the standard INTERNAL_ERROR body
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "http")),
		func(w http.ResponseWriter, _ *http.Request, _ any) {
			apierr.WriteError(w, apierr.NewInternalError())
		})
}
