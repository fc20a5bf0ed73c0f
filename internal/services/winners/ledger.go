package winners

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/storage"
)

// Ledger records cumulative wins by player name
type Ledger struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new Ledger
func New(storage storage.Storage, logger *slog.Logger) *Ledger {
	return &Ledger{
		storage: storage,
		logger:  logger.With(slog.String("component", "winners-ledger")),
	}
}

// RecordWin adds one win for name and returns the new total
func (l *Ledger) RecordWin(ctx context.Context, name string) (int, error) {
	wins, err := l.storage.IncrementWins(ctx, name)
	if err != nil {
		return 0, err
	}
	l.logger.Info("win recorded", slog.String("name", name), slog.Int("wins", wins))
	return wins, nil
}

// Wins returns the win count for name (0 if none)
func (l *Ledger) Wins(ctx context.Context, name string) (int, error) {
	return l.storage.GetWins(ctx, name)
}

// Snapshot returns every entry, most wins first, ties broken by name
func (l *Ledger) Snapshot(ctx context.Context) ([]model.WinnerEntry, error) {
	entries, err := l.storage.ListWins(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}
