package model

// BoardSize is the side length of every board
const BoardSize = 10

// Coordinate identifies a cell. X is the column, Y is the row, both 0-indexed.
type Coordinate struct {
	X int
	Y int
}

// InBounds returns true if the coordinate lies on the board
func (c Coordinate) InBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

// Neighbours returns the in-bounds cells within Chebyshev distance 1, excluding c itself
func (c Coordinate) Neighbours() []Coordinate {
	result := make([]Coordinate, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Coordinate{X: c.X + dx, Y: c.Y + dy}
			if n.InBounds() {
				result = append(result, n)
			}
		}
	}
	return result
}

// AllCoordinates returns every cell of the board in row-major order
func AllCoordinates() []Coordinate {
	result := make([]Coordinate, 0, BoardSize*BoardSize)
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			result = append(result, Coordinate{X: x, Y: y})
		}
	}
	return result
}
