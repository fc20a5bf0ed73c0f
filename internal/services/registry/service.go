package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/storage"
)

// Session binds an open connection to the player it registered as
type Session struct {
	ConnID    string
	Player    model.Player
	CreatedAt time.Time
}

// Service registers players and tracks which of them are connected
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	bcryptCost int

	// registerMu serialises the lookup-then-create sequence so two
	// concurrent registrations of a new name produce one player
	registerMu sync.Mutex

	mu       sync.RWMutex
	sessions map[string]*Session       // conn ID -> session
	online   map[model.PlayerID]string // player ID -> conn ID
}

// MaxPasswordBytes is the longest password bcrypt can hash
const MaxPasswordBytes = 72

// Config holds configuration for the registry service
type Config struct {
	BcryptCost int
}

// DefaultConfig returns default registry configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// New creates a new registry Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		storage:    storage,
		clock:      clock,
		random:     random,
		logger:     logger.With(slog.String("component", "registry")),
		bcryptCost: cfg.BcryptCost,
		sessions:   make(map[string]*Session),
		online:     make(map[model.PlayerID]string),
	}
}

// Register returns the player for name, creating it on first use.
// A known name must present the same password. The bool reports whether
// the player was newly created.
func (s *Service) Register(ctx context.Context, name, password string) (*model.Player, bool, error) {
	// Names are exact keys, so surrounding whitespace is refused rather than trimmed
	if name == "" || strings.TrimSpace(name) != name {
		return nil, false, model.ErrInvalidCredential
	}
	if password == "" || len(password) > MaxPasswordBytes {
		return nil, false, model.ErrInvalidCredential
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	rp, err := s.storage.GetRegisteredPlayerByName(ctx, name)
	if err == nil {
		if err := bcrypt.CompareHashAndPassword([]byte(rp.PasswordHash), []byte(password)); err != nil {
			return nil, false, model.ErrInvalidCredential
		}
		player, err := s.storage.GetPlayer(ctx, rp.PlayerID)
		if err != nil {
			return nil, false, err
		}
		return player, false, nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, false, model.ErrInvalidCredential
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:        model.PlayerID(s.random.UUID()),
		Name:      name,
		CreatedAt: now,
	}
	registered := &model.RegisteredPlayer{
		PlayerID:     player.ID,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, false, err
	}
	if err := s.storage.SaveRegisteredPlayer(ctx, registered); err != nil {
		return nil, false, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", name),
	)
	return player, true, nil
}

// Login registers (or authenticates) name and binds the player to connID.
// A player may be bound to one connection at a time. When the connection was
// already bound to a different player, that player is unbound and returned as
// displaced so the caller can release its room and game.
func (s *Service) Login(ctx context.Context, connID, name, password string) (*Session, *model.Player, error) {
	player, _, err := s.Register(ctx, name, password)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.online[player.ID]; ok && existing != connID {
		return nil, nil, model.ErrPlayerAlreadyOnline
	}
	var displaced *model.Player
	if previous, ok := s.sessions[connID]; ok && previous.Player.ID != player.ID {
		delete(s.online, previous.Player.ID)
		p := previous.Player
		displaced = &p
	}

	session := &Session{
		ConnID:    connID,
		Player:    *player,
		CreatedAt: s.clock.Now(),
	}
	s.sessions[connID] = session
	s.online[player.ID] = connID
	return session, displaced, nil
}

// Logout releases the binding for connID. It returns the session that was
// released, or nil if the connection never registered.
func (s *Service) Logout(connID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[connID]
	if !ok {
		return nil
	}
	delete(s.sessions, connID)
	if s.online[session.Player.ID] == connID {
		delete(s.online, session.Player.ID)
	}
	return session
}

// SessionFor returns the session bound to connID
func (s *Service) SessionFor(connID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[connID]
	if !ok {
		return nil, model.ErrNotRegistered
	}
	return session, nil
}

// IsOnline reports whether the player has a bound connection
func (s *Service) IsOnline(playerID model.PlayerID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.online[playerID]
	return ok
}

// OnlineCount returns the number of bound connections
func (s *Service) OnlineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.online)
}

// GetPlayer returns a player by ID
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}
