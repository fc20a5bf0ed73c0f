package testutil

import "github.com/mcoot/seabattle-go/internal/model"

func ship(x, y, length int, o model.Orientation) model.Ship {
	return model.Ship{
		Anchor:      model.Coordinate{X: x, Y: y},
		Length:      length,
		Orientation: o,
		Kind:        model.KindForLength(length),
	}
}

// StandardFleet returns a complete, spaced fleet packed into rows 0, 2 and 4:
//
//	row 0: 4 at x0-3, 3 at x5-7
//	row 2: 3 at x0-2, 2 at x4-5, 2 at x7-8
//	row 4: 2 at x0-1, 1 at x3, x5, x7, x9
func StandardFleet() []model.Ship {
	return []model.Ship{
		ship(0, 0, 4, model.Horizontal),
		ship(5, 0, 3, model.Horizontal),
		ship(0, 2, 3, model.Horizontal),
		ship(4, 2, 2, model.Horizontal),
		ship(7, 2, 2, model.Horizontal),
		ship(0, 4, 2, model.Horizontal),
		ship(3, 4, 1, model.Horizontal),
		ship(5, 4, 1, model.Horizontal),
		ship(7, 4, 1, model.Horizontal),
		ship(9, 4, 1, model.Horizontal),
	}
}

// TouchingFleet is StandardFleet with one single-cell ship moved next to
// another. Valid for a human player, rejected by the spacing check.
func TouchingFleet() []model.Ship {
	fleet := StandardFleet()
	fleet[6] = ship(2, 4, 1, model.Horizontal)
	return fleet
}

// VerticalFleet returns a complete fleet laid out in columns 0, 2, 4, 6 and 8
func VerticalFleet() []model.Ship {
	return []model.Ship{
		ship(0, 0, 4, model.Vertical),
		ship(0, 5, 3, model.Vertical),
		ship(2, 0, 3, model.Vertical),
		ship(2, 4, 2, model.Vertical),
		ship(2, 7, 2, model.Vertical),
		ship(4, 0, 2, model.Vertical),
		ship(4, 3, 1, model.Vertical),
		ship(4, 5, 1, model.Vertical),
		ship(4, 7, 1, model.Vertical),
		ship(4, 9, 1, model.Vertical),
	}
}

// FleetCells returns every ship cell of a fleet in fleet order
func FleetCells(ships []model.Ship) []model.Coordinate {
	var cells []model.Coordinate
	for _, s := range ships {
		cells = append(cells, s.Cells()...)
	}
	return cells
}
