package model

// Orientation is the axis a ship extends along from its anchor
type Orientation string

const (
	Horizontal Orientation = "horizontal" // cells extend along X
	Vertical   Orientation = "vertical"   // cells extend along Y
)

// ShipKind is the display class of a ship, derived from its length
type ShipKind string

const (
	ShipSmall  ShipKind = "small"
	ShipMedium ShipKind = "medium"
	ShipLarge  ShipKind = "large"
	ShipHuge   ShipKind = "huge"
)

// Fleet composition: ship length -> number of ships of that length
var FleetComposition = map[int]int{
	4: 1,
	3: 2,
	2: 3,
	1: 4,
}

// FleetShipCount and FleetCellCount describe a complete fleet
const (
	FleetShipCount = 10
	FleetCellCount = 20
	MaxShipLength  = 4
)

// FleetLengths returns the ship lengths of a complete fleet, longest first
func FleetLengths() []int {
	lengths := make([]int, 0, FleetShipCount)
	for length := MaxShipLength; length >= 1; length-- {
		for i := 0; i < FleetComposition[length]; i++ {
			lengths = append(lengths, length)
		}
	}
	return lengths
}

// KindForLength returns the ship kind used for a given length
func KindForLength(length int) ShipKind {
	switch length {
	case 1:
		return ShipSmall
	case 2:
		return ShipMedium
	case 3:
		return ShipLarge
	default:
		return ShipHuge
	}
}

// Ship is an immutable placed ship
type Ship struct {
	Anchor      Coordinate
	Length      int
	Orientation Orientation
	Kind        ShipKind
}

// Cells returns the cells the ship occupies, starting at the anchor
func (s Ship) Cells() []Coordinate {
	cells := make([]Coordinate, 0, s.Length)
	for i := 0; i < s.Length; i++ {
		c := s.Anchor
		if s.Orientation == Vertical {
			c.Y += i
		} else {
			c.X += i
		}
		cells = append(cells, c)
	}
	return cells
}

// Occupies returns true if the ship covers c
func (s Ship) Occupies(c Coordinate) bool {
	for _, cell := range s.Cells() {
		if cell == c {
			return true
		}
	}
	return false
}
