package testutil

import "log/slog"

// NopLogger is a logger for tests that should stay quiet
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
