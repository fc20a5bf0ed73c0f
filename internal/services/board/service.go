package board

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/seabattle-go/internal/model"
)

// FireResult is everything one attack changed on the defender's board
type FireResult struct {
	Target  model.Coordinate
	Outcome model.ShotOutcome

	// Sunk is set when Outcome is killed
	Sunk *model.Ship

	// AutoMisses are the ring cells recorded as misses after a kill, in ship-cell order
	AutoMisses []model.Coordinate

	// Defeated is true when every ship on the board has been sunk
	Defeated bool
}

// Service provides fleet validation and attack resolution
type Service struct {
	logger *slog.Logger
}

// New creates a new BoardService
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "board-service")),
	}
}

// ValidateFleet checks composition, bounds and overlap.
// Spacing between ships is not required here; see ValidateSpacing.
func (s *Service) ValidateFleet(ships []model.Ship) error {
	if len(ships) != model.FleetShipCount {
		return fmt.Errorf("%w: expected %d ships, got %d", model.ErrInvalidPlacement, model.FleetShipCount, len(ships))
	}

	counts := make(map[int]int)
	occupied := make(map[model.Coordinate]bool)
	for i, ship := range ships {
		if ship.Length < 1 || ship.Length > model.MaxShipLength {
			return fmt.Errorf("%w: ship %d has length %d", model.ErrInvalidPlacement, i, ship.Length)
		}
		if ship.Orientation != model.Horizontal && ship.Orientation != model.Vertical {
			return fmt.Errorf("%w: ship %d has orientation %q", model.ErrInvalidPlacement, i, ship.Orientation)
		}
		counts[ship.Length]++

		for _, cell := range ship.Cells() {
			if !cell.InBounds() {
				return fmt.Errorf("%w: ship %d leaves the board at (%d,%d)", model.ErrInvalidPlacement, i, cell.X, cell.Y)
			}
			if occupied[cell] {
				return fmt.Errorf("%w: ship %d overlaps at (%d,%d)", model.ErrInvalidPlacement, i, cell.X, cell.Y)
			}
			occupied[cell] = true
		}
	}

	for length, want := range model.FleetComposition {
		if counts[length] != want {
			return fmt.Errorf("%w: expected %d ships of length %d, got %d", model.ErrInvalidPlacement, want, length, counts[length])
		}
	}
	return nil
}

// ValidateSpacing checks that no two ships touch, including diagonally
func (s *Service) ValidateSpacing(ships []model.Ship) error {
	owner := make(map[model.Coordinate]int)
	for i, ship := range ships {
		for _, cell := range ship.Cells() {
			owner[cell] = i
		}
	}
	for i, ship := range ships {
		for _, cell := range ship.Cells() {
			for _, n := range cell.Neighbours() {
				if j, ok := owner[n]; ok && j != i {
					return fmt.Errorf("%w: ships %d and %d touch at (%d,%d)", model.ErrInvalidPlacement, i, j, n.X, n.Y)
				}
			}
		}
	}
	return nil
}

// Fire resolves one attack against board. A kill closes the ring of
// surrounding cells as automatic misses.
func (s *Service) Fire(board *model.Board, target model.Coordinate) (*FireResult, error) {
	if target.InBounds() && board.IsShot(target) {
		return nil, model.ErrAlreadyAttacked
	}
	if !target.InBounds() {
		return nil, model.ErrOutOfBounds
	}

	shot := board.ResolveShot(target)
	result := &FireResult{
		Target:  target,
		Outcome: shot.Outcome,
		Sunk:    shot.Ship,
	}

	if shot.Outcome == model.OutcomeKilled {
		for _, cell := range board.RingCells(*shot.Ship) {
			board.MarkMiss(cell)
			result.AutoMisses = append(result.AutoMisses, cell)
		}
	}

	result.Defeated = board.AllShipsSunk()
	return result, nil
}

// RandomTarget picks uniformly among the board's untried cells
func (s *Service) RandomTarget(board *model.Board, intn func(n int) int) (model.Coordinate, error) {
	n := board.UntriedCount()
	if n == 0 {
		return model.Coordinate{}, model.ErrNoUntriedCells
	}
	return board.UntriedAt(intn(n)), nil
}

// Interface for dependency injection
type ServiceInterface interface {
	ValidateFleet(ships []model.Ship) error
	ValidateSpacing(ships []model.Ship) error
	Fire(board *model.Board, target model.Coordinate) (*FireResult, error)
	RandomTarget(board *model.Board, intn func(n int) int) (model.Coordinate, error)
}

var _ ServiceInterface = (*Service)(nil)
