package bot

import (
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
)

const (
	// MaxPlacementSamples is how many random anchors are tried per ship
	// before falling back to a scan of every anchor
	MaxPlacementSamples = 200
	// MaxFleetAttempts bounds how many times a whole fleet is restarted
	MaxFleetAttempts = 50
)

// RandomStrategy places ships at random spaced positions and fires at
// random untried cells
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// PlaceFleet lays out ships longest first, sampling anchor and orientation
// until each ship keeps a one-cell gap from those already placed
func (s *RandomStrategy) PlaceFleet() ([]model.Ship, error) {
	for attempt := 0; attempt < MaxFleetAttempts; attempt++ {
		used := make(map[model.Coordinate]bool)
		ships := make([]model.Ship, 0, model.FleetShipCount)

		for _, length := range model.FleetLengths() {
			ship, ok := s.placeShip(length, used)
			if !ok {
				break
			}
			for _, c := range ship.Cells() {
				used[c] = true
			}
			ships = append(ships, ship)
		}

		if len(ships) == model.FleetShipCount {
			return ships, nil
		}
	}
	return nil, model.ErrFleetGeneration
}

func (s *RandomStrategy) placeShip(length int, used map[model.Coordinate]bool) (model.Ship, bool) {
	for i := 0; i < MaxPlacementSamples; i++ {
		orientation := model.Horizontal
		if s.random.Bool() {
			orientation = model.Vertical
		}
		along := s.random.Intn(model.BoardSize - length + 1)
		across := s.random.Intn(model.BoardSize)

		anchor := model.Coordinate{X: along, Y: across}
		if orientation == model.Vertical {
			anchor = model.Coordinate{X: across, Y: along}
		}

		ship := newShip(anchor, length, orientation)
		if fits(ship, used) {
			return ship, true
		}
	}

	// Sampling keeps missing; take the first anchor that fits
	for _, orientation := range []model.Orientation{model.Horizontal, model.Vertical} {
		for _, anchor := range model.AllCoordinates() {
			ship := newShip(anchor, length, orientation)
			if fits(ship, used) {
				return ship, true
			}
		}
	}
	return model.Ship{}, false
}

func newShip(anchor model.Coordinate, length int, orientation model.Orientation) model.Ship {
	return model.Ship{
		Anchor:      anchor,
		Length:      length,
		Orientation: orientation,
		Kind:        model.KindForLength(length),
	}
}

// fits reports whether ship is on the board and no cell of it lies within
// Chebyshev distance 1 of a used cell
func fits(ship model.Ship, used map[model.Coordinate]bool) bool {
	for _, c := range ship.Cells() {
		if !c.InBounds() || used[c] {
			return false
		}
		for _, n := range c.Neighbours() {
			if used[n] {
				return false
			}
		}
	}
	return true
}

// ChooseTarget picks uniformly among the board's untried cells
func (s *RandomStrategy) ChooseTarget(board *model.Board) (model.Coordinate, error) {
	n := board.UntriedCount()
	if n == 0 {
		return model.Coordinate{}, model.ErrNoUntriedCells
	}
	return board.UntriedAt(s.random.Intn(n)), nil
}
