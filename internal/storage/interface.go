package storage

import (
	"context"

	"github.com/mcoot/seabattle-go/internal/model"
)

// Storage defines the interface for data persistence.
// Rooms and games are process-local and never stored.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByName(ctx context.Context, name string) (*model.RegisteredPlayer, error)

	// Winners ledger operations
	IncrementWins(ctx context.Context, name string) (int, error)
	GetWins(ctx context.Context, name string) (int, error)
	ListWins(ctx context.Context) ([]model.WinnerEntry, error)

	// Close releases backend resources
	Close() error
}
