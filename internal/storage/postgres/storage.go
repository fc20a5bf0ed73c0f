package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/storage"
)

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL, optionally applying migrations first
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, error) {
	if cfg.AutoMigrate {
		if err := Migrate(cfg.URL, logger); err != nil {
			return nil, err
		}
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return NewWithPool(pool), nil
}

// NewWithPool creates a storage over an existing pool (for testing)
func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Close closes the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO players (id, name, is_bot, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, is_bot = EXCLUDED.is_bot`,
		string(player.ID), player.Name, player.IsBot, player.CreatedAt)
	if err != nil {
		return fmt.Errorf("save player: %w", err)
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var (
		player model.Player
		rawID  string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, is_bot, created_at FROM players WHERE id = $1`, string(id)).
		Scan(&rawID, &player.Name, &player.IsBot, &player.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player: %w", err)
	}
	player.ID = model.PlayerID(rawID)
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, string(id)); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO registered_players (player_id, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, updated_at = EXCLUDED.updated_at`,
		string(rp.PlayerID), rp.Name, rp.PasswordHash, rp.CreatedAt, rp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save registered player: %w", err)
	}
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	return s.queryRegisteredPlayer(ctx,
		`SELECT player_id, name, password_hash, created_at, updated_at
		 FROM registered_players WHERE player_id = $1`, string(playerID))
}

func (s *Storage) GetRegisteredPlayerByName(ctx context.Context, name string) (*model.RegisteredPlayer, error) {
	return s.queryRegisteredPlayer(ctx,
		`SELECT player_id, name, password_hash, created_at, updated_at
		 FROM registered_players WHERE name = $1`, name)
}

func (s *Storage) queryRegisteredPlayer(ctx context.Context, query string, arg string) (*model.RegisteredPlayer, error) {
	var (
		rp    model.RegisteredPlayer
		rawID string
	)
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&rawID, &rp.Name, &rp.PasswordHash, &rp.CreatedAt, &rp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get registered player: %w", err)
	}
	rp.PlayerID = model.PlayerID(rawID)
	return &rp, nil
}

// Winners ledger operations

func (s *Storage) IncrementWins(ctx context.Context, name string) (int, error) {
	var wins int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO winners (name, wins) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET wins = winners.wins + 1
		RETURNING wins`, name).Scan(&wins)
	if err != nil {
		return 0, fmt.Errorf("increment wins: %w", err)
	}
	return wins, nil
}

func (s *Storage) GetWins(ctx context.Context, name string) (int, error) {
	var wins int
	err := s.pool.QueryRow(ctx, `SELECT wins FROM winners WHERE name = $1`, name).Scan(&wins)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get wins: %w", err)
	}
	return wins, nil
}

func (s *Storage) ListWins(ctx context.Context) ([]model.WinnerEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, wins FROM winners ORDER BY wins DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list wins: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.WinnerEntry, error) {
		var e model.WinnerEntry
		err := row.Scan(&e.Name, &e.Wins)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("list wins: %w", err)
	}
	return entries, nil
}
