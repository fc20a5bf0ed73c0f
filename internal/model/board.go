package model

// CellState is the derived state of a single board cell
type CellState string

const (
	CellEmpty      CellState = "empty"
	CellShipIntact CellState = "ship"
	CellHit        CellState = "hit"
	CellMiss       CellState = "miss"
)

// ShotOutcome is the result of resolving one attack coordinate
type ShotOutcome string

const (
	OutcomeMiss   ShotOutcome = "miss"
	OutcomeShot   ShotOutcome = "shot"
	OutcomeKilled ShotOutcome = "killed"
)

// ShotResult is returned by ResolveShot. Ship is set only when the outcome is killed.
type ShotResult struct {
	Outcome ShotOutcome
	Ship    *Ship
}

// Board holds one player's fleet and the shots the opponent has fired at it
type Board struct {
	GameID   GameID
	PlayerID PlayerID
	Ships    []Ship

	shots map[Coordinate]bool

	// untried is the explicit list of cells not yet shot; untriedIdx maps a
	// cell to its position in untried so removal is a swap with the tail.
	untried    []Coordinate
	untriedIdx map[Coordinate]int
}

// NewBoard creates an empty board with no fleet and no shots
func NewBoard(gameID GameID, playerID PlayerID) *Board {
	all := AllCoordinates()
	idx := make(map[Coordinate]int, len(all))
	for i, c := range all {
		idx[c] = i
	}
	return &Board{
		GameID:     gameID,
		PlayerID:   playerID,
		shots:      make(map[Coordinate]bool),
		untried:    all,
		untriedIdx: idx,
	}
}

// HasFleet returns true once a fleet has been placed
func (b *Board) HasFleet() bool {
	return len(b.Ships) > 0
}

// PlaceFleet records the ships. Validation happens before this is called.
func (b *Board) PlaceFleet(ships []Ship) {
	b.Ships = make([]Ship, len(ships))
	copy(b.Ships, ships)
}

// IsShot returns true if c is in the shot history
func (b *Board) IsShot(c Coordinate) bool {
	return b.shots[c]
}

// ShotCount returns the size of the shot history
func (b *Board) ShotCount() int {
	return len(b.shots)
}

// ShipAt returns the ship covering c, if any
func (b *Board) ShipAt(c Coordinate) (*Ship, bool) {
	for i := range b.Ships {
		if b.Ships[i].Occupies(c) {
			return &b.Ships[i], true
		}
	}
	return nil, false
}

// CellState derives the state of c from the fleet and the shot history
func (b *Board) CellState(c Coordinate) CellState {
	_, hasShip := b.ShipAt(c)
	switch {
	case hasShip && b.shots[c]:
		return CellHit
	case hasShip:
		return CellShipIntact
	case b.shots[c]:
		return CellMiss
	default:
		return CellEmpty
	}
}

// ResolveShot records c in the shot history and classifies the outcome.
// Callers must reject out-of-bounds and already-shot coordinates first.
func (b *Board) ResolveShot(c Coordinate) ShotResult {
	b.record(c)
	ship, ok := b.ShipAt(c)
	if !ok {
		return ShotResult{Outcome: OutcomeMiss}
	}
	if b.IsSunk(*ship) {
		return ShotResult{Outcome: OutcomeKilled, Ship: ship}
	}
	return ShotResult{Outcome: OutcomeShot}
}

// MarkMiss records an automatic miss at c
func (b *Board) MarkMiss(c Coordinate) {
	b.record(c)
}

// IsSunk returns true if every cell of s is in the shot history
func (b *Board) IsSunk(s Ship) bool {
	for _, c := range s.Cells() {
		if !b.shots[c] {
			return false
		}
	}
	return true
}

// AllShipsSunk returns true when every ship cell has been hit
func (b *Board) AllShipsSunk() bool {
	if !b.HasFleet() {
		return false
	}
	for _, s := range b.Ships {
		if !b.IsSunk(s) {
			return false
		}
	}
	return true
}

// RingCells returns the cells surrounding s that are on the board, not part
// of any ship and not yet shot. Each cell appears once, in ship-cell order.
func (b *Board) RingCells(s Ship) []Coordinate {
	seen := make(map[Coordinate]bool)
	var ring []Coordinate
	for _, cell := range s.Cells() {
		for _, n := range cell.Neighbours() {
			if seen[n] {
				continue
			}
			seen[n] = true
			if b.shots[n] {
				continue
			}
			if _, isShip := b.ShipAt(n); isShip {
				continue
			}
			ring = append(ring, n)
		}
	}
	return ring
}

// UntriedCells returns a copy of the cells not yet shot
func (b *Board) UntriedCells() []Coordinate {
	result := make([]Coordinate, len(b.untried))
	copy(result, b.untried)
	return result
}

// UntriedCount returns how many cells remain unshot
func (b *Board) UntriedCount() int {
	return len(b.untried)
}

// UntriedAt returns the i-th untried cell. Used to sample uniformly.
func (b *Board) UntriedAt(i int) Coordinate {
	return b.untried[i]
}

func (b *Board) record(c Coordinate) {
	if b.shots[c] {
		return
	}
	b.shots[c] = true
	i, ok := b.untriedIdx[c]
	if !ok {
		return
	}
	last := len(b.untried) - 1
	moved := b.untried[last]
	b.untried[i] = moved
	b.untriedIdx[moved] = i
	b.untried = b.untried[:last]
	delete(b.untriedIdx, c)
}
