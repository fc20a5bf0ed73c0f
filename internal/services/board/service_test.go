package board

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
	board   *model.Board
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(testutil.NopLogger())
	s.board = model.NewBoard("game-1", "player-1")
	s.board.PlaceFleet(testutil.StandardFleet())
}

// ValidateFleet tests

func (s *ServiceSuite) TestValidateFleetAcceptsStandardFleet() {
	s.NoError(s.service.ValidateFleet(testutil.StandardFleet()))
	s.NoError(s.service.ValidateFleet(testutil.VerticalFleet()))
}

func (s *ServiceSuite) TestValidateFleetAcceptsTouchingShips() {
	s.NoError(s.service.ValidateFleet(testutil.TouchingFleet()))
}

func (s *ServiceSuite) TestValidateFleetRejectsWrongShipCount() {
	fleet := testutil.StandardFleet()[:9]
	s.ErrorIs(s.service.ValidateFleet(fleet), model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestValidateFleetRejectsWrongComposition() {
	fleet := testutil.StandardFleet()
	// Replace a single-cell ship with a second four-cell ship
	fleet[9] = model.Ship{Anchor: model.Coordinate{X: 0, Y: 7}, Length: 4, Orientation: model.Horizontal}
	s.ErrorIs(s.service.ValidateFleet(fleet), model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestValidateFleetRejectsOutOfBounds() {
	fleet := testutil.StandardFleet()
	fleet[0] = model.Ship{Anchor: model.Coordinate{X: 7, Y: 9}, Length: 4, Orientation: model.Horizontal}
	s.ErrorIs(s.service.ValidateFleet(fleet), model.ErrInvalidPlacement)

	fleet[0] = model.Ship{Anchor: model.Coordinate{X: 9, Y: 7}, Length: 4, Orientation: model.Vertical}
	s.ErrorIs(s.service.ValidateFleet(fleet), model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestValidateFleetRejectsNegativeAnchor() {
	fleet := testutil.StandardFleet()
	fleet[9] = model.Ship{Anchor: model.Coordinate{X: -1, Y: 9}, Length: 1, Orientation: model.Horizontal}
	s.ErrorIs(s.service.ValidateFleet(fleet), model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestValidateFleetRejectsOverlap() {
	fleet := testutil.StandardFleet()
	fleet[9] = model.Ship{Anchor: model.Coordinate{X: 0, Y: 0}, Length: 1, Orientation: model.Horizontal}
	s.ErrorIs(s.service.ValidateFleet(fleet), model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestValidateFleetRejectsUnknownOrientation() {
	fleet := testutil.StandardFleet()
	fleet[9].Orientation = "diagonal"
	s.ErrorIs(s.service.ValidateFleet(fleet), model.ErrInvalidPlacement)
}

// ValidateSpacing tests

func (s *ServiceSuite) TestValidateSpacing() {
	s.NoError(s.service.ValidateSpacing(testutil.StandardFleet()))
	s.ErrorIs(s.service.ValidateSpacing(testutil.TouchingFleet()), model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestValidateSpacingRejectsDiagonalContact() {
	ships := []model.Ship{
		{Anchor: model.Coordinate{X: 0, Y: 0}, Length: 1, Orientation: model.Horizontal},
		{Anchor: model.Coordinate{X: 1, Y: 1}, Length: 1, Orientation: model.Horizontal},
	}
	s.ErrorIs(s.service.ValidateSpacing(ships), model.ErrInvalidPlacement)
}

// Fire tests

func (s *ServiceSuite) TestFireMiss() {
	result, err := s.service.Fire(s.board, model.Coordinate{X: 9, Y: 9})
	s.Require().NoError(err)

	s.Equal(model.OutcomeMiss, result.Outcome)
	s.Nil(result.Sunk)
	s.Empty(result.AutoMisses)
	s.False(result.Defeated)
	s.Equal(model.CellMiss, s.board.CellState(model.Coordinate{X: 9, Y: 9}))
}

func (s *ServiceSuite) TestFireHitWithoutSinking() {
	result, err := s.service.Fire(s.board, model.Coordinate{X: 0, Y: 0})
	s.Require().NoError(err)

	s.Equal(model.OutcomeShot, result.Outcome)
	s.Nil(result.Sunk)
	s.Empty(result.AutoMisses)
	s.Equal(model.CellHit, s.board.CellState(model.Coordinate{X: 0, Y: 0}))
}

func (s *ServiceSuite) TestFireKillClosesRing() {
	// Single-cell ship at (9,4): ring is the five in-bounds neighbours
	result, err := s.service.Fire(s.board, model.Coordinate{X: 9, Y: 4})
	s.Require().NoError(err)

	s.Equal(model.OutcomeKilled, result.Outcome)
	s.Require().NotNil(result.Sunk)
	s.Equal(1, result.Sunk.Length)
	s.ElementsMatch([]model.Coordinate{
		{X: 8, Y: 3}, {X: 9, Y: 3},
		{X: 8, Y: 4},
		{X: 8, Y: 5}, {X: 9, Y: 5},
	}, result.AutoMisses)

	for _, c := range result.AutoMisses {
		s.Equal(model.CellMiss, s.board.CellState(c))
	}
}

func (s *ServiceSuite) TestFireKillSkipsAlreadyShotRingCells() {
	_, err := s.service.Fire(s.board, model.Coordinate{X: 8, Y: 3})
	s.Require().NoError(err)

	result, err := s.service.Fire(s.board, model.Coordinate{X: 9, Y: 4})
	s.Require().NoError(err)

	s.NotContains(result.AutoMisses, model.Coordinate{X: 8, Y: 3})
	s.Len(result.AutoMisses, 4)
}

func (s *ServiceSuite) TestFireKillRingExcludesOtherShips() {
	board := model.NewBoard("game-1", "player-1")
	board.PlaceFleet(testutil.TouchingFleet())

	// (2,4) touches the two-cell ship at (0..1,4); its cells are not auto-missed
	result, err := s.service.Fire(board, model.Coordinate{X: 2, Y: 4})
	s.Require().NoError(err)
	s.Equal(model.OutcomeKilled, result.Outcome)
	s.NotContains(result.AutoMisses, model.Coordinate{X: 1, Y: 4})
	s.Contains(result.AutoMisses, model.Coordinate{X: 3, Y: 4})
}

func (s *ServiceSuite) TestFireLongShipKilledOnLastCell() {
	for x := 0; x < 3; x++ {
		result, err := s.service.Fire(s.board, model.Coordinate{X: x, Y: 0})
		s.Require().NoError(err)
		s.Equal(model.OutcomeShot, result.Outcome)
	}

	result, err := s.service.Fire(s.board, model.Coordinate{X: 3, Y: 0})
	s.Require().NoError(err)
	s.Equal(model.OutcomeKilled, result.Outcome)
	s.Equal(4, result.Sunk.Length)
	// x4 of rows 0 and 1, plus x0-3 of row 1
	s.ElementsMatch([]model.Coordinate{
		{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 4, Y: 1}, {X: 4, Y: 0},
	}, result.AutoMisses)
}

func (s *ServiceSuite) TestFireRejectsRepeat() {
	_, err := s.service.Fire(s.board, model.Coordinate{X: 9, Y: 9})
	s.Require().NoError(err)

	shotsBefore := s.board.ShotCount()
	_, err = s.service.Fire(s.board, model.Coordinate{X: 9, Y: 9})
	s.ErrorIs(err, model.ErrAlreadyAttacked)
	s.Equal(shotsBefore, s.board.ShotCount())
}

func (s *ServiceSuite) TestFireRejectsAutoMissedCell() {
	_, err := s.service.Fire(s.board, model.Coordinate{X: 9, Y: 4})
	s.Require().NoError(err)

	_, err = s.service.Fire(s.board, model.Coordinate{X: 9, Y: 5})
	s.ErrorIs(err, model.ErrAlreadyAttacked)
}

func (s *ServiceSuite) TestFireRejectsOutOfBounds() {
	for _, c := range []model.Coordinate{{X: -1, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 0, Y: -1}} {
		_, err := s.service.Fire(s.board, c)
		s.ErrorIs(err, model.ErrOutOfBounds)
	}
	s.Equal(0, s.board.ShotCount())
}

func (s *ServiceSuite) TestFireDefeatedOnLastShip() {
	cells := testutil.FleetCells(testutil.StandardFleet())
	var last *FireResult
	for _, c := range cells {
		if s.board.IsShot(c) {
			continue
		}
		result, err := s.service.Fire(s.board, c)
		s.Require().NoError(err)
		last = result
	}
	s.Require().NotNil(last)
	s.True(last.Defeated)
	s.True(s.board.AllShipsSunk())
}

// RandomTarget tests

func (s *ServiceSuite) TestRandomTargetPicksFromUntried() {
	c, err := s.service.RandomTarget(s.board, func(n int) int { return 0 })
	s.Require().NoError(err)
	s.False(s.board.IsShot(c))
}

func (s *ServiceSuite) TestRandomTargetCoversWholeBoard() {
	seen := make(map[model.Coordinate]bool)
	for i := 0; i < model.BoardSize*model.BoardSize; i++ {
		c, err := s.service.RandomTarget(s.board, func(n int) int { return n - 1 })
		s.Require().NoError(err)
		s.False(seen[c])
		seen[c] = true
		s.board.MarkMiss(c)
	}

	_, err := s.service.RandomTarget(s.board, func(n int) int { return 0 })
	s.ErrorIs(err, model.ErrNoUntriedCells)
}
