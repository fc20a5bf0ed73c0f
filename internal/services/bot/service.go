package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/storage"
)

const (
	// NameSuffixAlphabet is the character set for bot name suffixes
	NameSuffixAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// NameSuffixLength is the length of the generated bot name suffix
	NameSuffixLength = 4
)

// Service creates bot players and answers for them
type Service struct {
	storage         storage.Storage
	strategies      map[string]Strategy
	defaultStrategy string
	clock           clock.Clock
	random          random.Random
	logger          *slog.Logger
}

// NewService creates a new bot Service. defaultStrategy must be a key of strategies.
func NewService(
	store storage.Storage,
	strategies map[string]Strategy,
	defaultStrategy string,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:         store,
		strategies:      strategies,
		defaultStrategy: defaultStrategy,
		clock:           clk,
		random:          rnd,
		logger:          logger.With(slog.String("component", "bot-service")),
	}
}

// CreateBotPlayer creates a new bot player and saves it to storage.
// An empty strategy selects the default.
func (s *Service) CreateBotPlayer(ctx context.Context, strategy string) (*model.Player, error) {
	if strategy == "" {
		strategy = s.defaultStrategy
	}
	if _, ok := s.strategies[strategy]; !ok {
		return nil, fmt.Errorf("unknown bot strategy: %s", strategy)
	}

	player := &model.Player{
		ID:          model.PlayerID("bot-" + s.random.UUID()),
		Name:        model.BotName(strategy, s.random.Code(NameSuffixLength, NameSuffixAlphabet)),
		IsBot:       true,
		BotStrategy: strategy,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("bot created",
		slog.String("bot_id", string(player.ID)),
		slog.String("strategy", strategy),
	)
	return player, nil
}

// RemoveBotPlayer deletes a bot once its game is over
func (s *Service) RemoveBotPlayer(ctx context.Context, id model.PlayerID) error {
	return s.storage.DeletePlayer(ctx, id)
}

// PlaceFleet generates the fleet for a bot player
func (s *Service) PlaceFleet(player model.Player) ([]model.Ship, error) {
	return s.strategyForPlayer(player).PlaceFleet()
}

// ChooseTarget picks the bot's next attack on the opponent's board
func (s *Service) ChooseTarget(player model.Player, opponentBoard *model.Board) (model.Coordinate, error) {
	return s.strategyForPlayer(player).ChooseTarget(opponentBoard)
}

// strategyForPlayer returns the strategy for a bot player, falling back to
// the default strategy if the player's strategy is not found
func (s *Service) strategyForPlayer(player model.Player) Strategy {
	if st, ok := s.strategies[player.BotStrategy]; ok {
		return st
	}
	return s.strategies[s.defaultStrategy]
}
