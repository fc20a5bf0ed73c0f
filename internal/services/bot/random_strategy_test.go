package bot

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/seabattle-go/internal/dependencies/mocks"
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/board"
	"github.com/mcoot/seabattle-go/internal/testutil"
)

type RandomStrategySuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
	strategy   *RandomStrategy
	boards     *board.Service
}

func TestRandomStrategySuite(t *testing.T) {
	suite.Run(t, new(RandomStrategySuite))
}

func (s *RandomStrategySuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
	s.strategy = NewRandomStrategy(s.mockRandom)
	s.boards = board.New(testutil.NopLogger())
}

func (s *RandomStrategySuite) assertValidSpacedFleet(ships []model.Ship) {
	s.Require().NoError(s.boards.ValidateFleet(ships))
	s.Require().NoError(s.boards.ValidateSpacing(ships))
}

func (s *RandomStrategySuite) TestPlaceFleetWithRealRandomness() {
	strategy := NewRandomStrategy(random.New())
	for i := 0; i < 50; i++ {
		ships, err := strategy.PlaceFleet()
		s.Require().NoError(err)
		s.assertValidSpacedFleet(ships)
	}
}

func (s *RandomStrategySuite) TestPlaceFleetFallsBackWhenSamplingKeepsColliding() {
	// An empty queue makes every sample (horizontal, 0, 0); only the first ship fits there
	ships, err := s.strategy.PlaceFleet()
	s.Require().NoError(err)
	s.assertValidSpacedFleet(ships)
	s.Equal(model.Coordinate{X: 0, Y: 0}, ships[0].Anchor)
}

func (s *RandomStrategySuite) TestPlaceFleetUsesSampledPosition() {
	// orientation=vertical, along=2, across=7 -> anchor (7,2)
	s.mockRandom.QueueIntn(1, 2, 7)

	ships, err := s.strategy.PlaceFleet()
	s.Require().NoError(err)
	s.Equal(model.Ship{
		Anchor:      model.Coordinate{X: 7, Y: 2},
		Length:      4,
		Orientation: model.Vertical,
		Kind:        model.ShipHuge,
	}, ships[0])
}

func (s *RandomStrategySuite) TestPlaceFleetLongestFirst() {
	ships, err := s.strategy.PlaceFleet()
	s.Require().NoError(err)

	lengths := make([]int, len(ships))
	for i, ship := range ships {
		lengths[i] = ship.Length
	}
	s.Equal(model.FleetLengths(), lengths)
}

func (s *RandomStrategySuite) TestChooseTargetUniformOverUntried() {
	b := model.NewBoard("game-1", "player-1")
	untried := b.UntriedCells()

	s.mockRandom.QueueIntn(42)
	c, err := s.strategy.ChooseTarget(b)
	s.Require().NoError(err)
	s.Equal(untried[42], c)
}

func (s *RandomStrategySuite) TestChooseTargetNeverRepeats() {
	b := model.NewBoard("game-1", "player-1")
	strategy := NewRandomStrategy(random.New())

	for i := 0; i < model.BoardSize*model.BoardSize; i++ {
		c, err := strategy.ChooseTarget(b)
		s.Require().NoError(err)
		s.False(b.IsShot(c))
		b.MarkMiss(c)
	}

	_, err := strategy.ChooseTarget(b)
	s.ErrorIs(err, model.ErrNoUntriedCells)
}
