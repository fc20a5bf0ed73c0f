package factory

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/seabattle-go/internal/dependencies/mocks"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/registry"
	"github.com/mcoot/seabattle-go/internal/storage/memory"
	"github.com/mcoot/seabattle-go/internal/transport/ws"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	cfg := Config{
		Registry: registry.Config{BcryptCost: bcrypt.MinCost},
		Game:     game.DefaultConfig(),
		WS:       ws.DefaultConfig(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &TestApp{
		App:        newWithDependencies(store, mockClock, mockRandom, cfg, logger),
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// BotTurn advances the clock past the bot's thinking delay
func (t *TestApp) BotTurn() {
	t.MockClock.Advance(game.DefaultConfig().BotMoveDelay)
}
