package engine

import "fmt"

// Board is one player's grid. It owns the cell states, the placed ships and
// the set of attacked coordinates. Cell states follow from the rest of the
// board: SHIP iff a ship covers the cell and it is unhit, HIT iff covered
// and hit, MISS iff attacked and uncovered, EMPTY otherwise.
type Board struct {
	size     int
	cells    map[Coordinate]CellState
	ships    map[string]*Ship
	attacked map[Coordinate]bool
}

// NewBoard creates an empty size x size board
func NewBoard(size int) (*Board, error) {
	if size < 1 {
		return nil, fmt.Errorf("board size must be at least 1, got %d", size)
	}
	cells := make(map[Coordinate]CellState, size*size)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			cells[Coordinate{X: x, Y: y}] = CellEmpty
		}
	}
	return &Board{
		size:     size,
		cells:    cells,
		ships:    make(map[string]*Ship),
		attacked: make(map[Coordinate]bool),
	}, nil
}

// Size returns the board's side length
func (b *Board) Size() int {
	return b.size
}

// IsValidCoordinate reports whether c lies within the board bounds
func (b *Board) IsValidCoordinate(c Coordinate) bool {
	return c.X >= 0 && c.X < b.size && c.Y >= 0 && c.Y < b.size
}

// CellStateAt returns the state of the cell at c
func (b *Board) CellStateAt(c Coordinate) (CellState, error) {
	if !b.IsValidCoordinate(c) {
		return "", fmt.Errorf("%w: %s on a %dx%d board", ErrInvalidCoordinate, c, b.size, b.size)
	}
	return b.cells[c], nil
}

// setCellState overwrites the state of the cell at c. Kept internal so the
// cell-state invariant can only be touched by board and player operations.
func (b *Board) setCellState(c Coordinate, state CellState) error {
	if !b.IsValidCoordinate(c) {
		return fmt.Errorf("%w: %s on a %dx%d board", ErrInvalidCoordinate, c, b.size, b.size)
	}
	b.cells[c] = state
	return nil
}

// PlaceShip validates and records a ship. Checks run in a fixed order:
// every position in bounds, no overlap with an existing ship, positions
// forming one straight contiguous run matching the ship's declared
// orientation, and at most one ship per type. Nothing is mutated unless
// every check passes.
func (b *Board) PlaceShip(ship *Ship) error {
	if ship == nil {
		return fmt.Errorf("%w: nil ship", ErrInvalidShip)
	}
	positions := ship.Positions()
	for _, c := range positions {
		if !b.IsValidCoordinate(c) {
			return fmt.Errorf("%w: ship %q position %s on a %dx%d board",
				ErrInvalidCoordinate, ship.ID(), c, b.size, b.size)
		}
	}
	for _, c := range positions {
		if b.cells[c] == CellShip {
			return fmt.Errorf("%w: ship %q at %s", ErrShipOverlap, ship.ID(), c)
		}
	}
	if err := checkAlignment(ship, positions); err != nil {
		return err
	}
	for _, other := range b.ships {
		if other.Type() == ship.Type() {
			return fmt.Errorf("%w: a %s is already placed", ErrShipPlacement, ship.Type())
		}
	}
	if _, exists := b.ships[ship.ID()]; exists {
		return fmt.Errorf("%w: ship id %q already in use", ErrShipPlacement, ship.ID())
	}

	b.ships[ship.ID()] = ship
	for _, c := range positions {
		b.cells[c] = CellShip
	}
	return nil
}

// checkAlignment verifies that positions (sorted by x, then y) form a single
// straight run along the ship's declared axis: one row with consecutive x
// values for HORIZONTAL, one column with consecutive y values for VERTICAL.
func checkAlignment(ship *Ship, sorted []Coordinate) error {
	first := sorted[0]
	switch ship.Orientation() {
	case Horizontal:
		for i, c := range sorted {
			if c.Y != first.Y || c.X != first.X+i {
				return fmt.Errorf("%w: ship %q positions do not form a contiguous horizontal run",
					ErrShipPlacement, ship.ID())
			}
		}
	case Vertical:
		for i, c := range sorted {
			if c.X != first.X || c.Y != first.Y+i {
				return fmt.Errorf("%w: ship %q positions do not form a contiguous vertical run",
					ErrShipPlacement, ship.ID())
			}
		}
	default:
		return fmt.Errorf("%w: ship %q has unknown orientation %q",
			ErrShipPlacement, ship.ID(), ship.Orientation())
	}
	return nil
}

// RemoveShip deletes a placed ship and resets its cells to EMPTY. Returns
// the removed ship, or nil when no ship has that id.
func (b *Board) RemoveShip(id string) *Ship {
	ship, ok := b.ships[id]
	if !ok {
		return nil
	}
	delete(b.ships, id)
	for _, c := range ship.Positions() {
		b.cells[c] = CellEmpty
	}
	return ship
}

// ShipAt returns the ship occupying c, or nil. Linear scan; a board holds at
// most a handful of ships.
func (b *Board) ShipAt(c Coordinate) *Ship {
	for _, ship := range b.ships {
		if ship.Occupies(c) {
			return ship
		}
	}
	return nil
}

// MarkHit records an attack at c and returns true when a ship occupies the
// cell. Repeat-attack detection is the caller's job (Player.ReceiveAttack
// short-circuits before calling this); re-marking a coordinate re-registers
// an idempotent hit.
func (b *Board) MarkHit(c Coordinate) (bool, error) {
	if !b.IsValidCoordinate(c) {
		return false, fmt.Errorf("%w: %s on a %dx%d board", ErrInvalidCoordinate, c, b.size, b.size)
	}
	b.attacked[c] = true
	if ship := b.ShipAt(c); ship != nil {
		ship.RegisterHit(c)
		b.cells[c] = CellHit
		return true, nil
	}
	b.cells[c] = CellMiss
	return false, nil
}

// HasBeenAttacked reports whether c has been attacked before
func (b *Board) HasBeenAttacked(c Coordinate) bool {
	return b.attacked[c]
}

// AllShipsSunk reports whether every placed ship is sunk. Vacuously true on
// a board with no ships; callers must ensure ships exist before treating
// this as a win condition.
func (b *Board) AllShipsSunk() bool {
	for _, ship := range b.ships {
		if !ship.IsSunk() {
			return false
		}
	}
	return true
}

// AttackedCoordinates returns the attacked set as a sorted copy
func (b *Board) AttackedCoordinates() []Coordinate {
	out := make([]Coordinate, 0, len(b.attacked))
	for c := range b.attacked {
		out = append(out, c)
	}
	sortCoordinates(out)
	return out
}

// Ships returns the placed ships keyed by id. The map is a copy; the ships
// themselves are shared.
func (b *Board) Ships() map[string]*Ship {
	out := make(map[string]*Ship, len(b.ships))
	for id, ship := range b.ships {
		out[id] = ship
	}
	return out
}

// ShipCount returns the number of placed ships
func (b *Board) ShipCount() int {
	return len(b.ships)
}

// SunkShipCount returns the number of placed ships that are fully sunk
func (b *Board) SunkShipCount() int {
	count := 0
	for _, ship := range b.ships {
		if ship.IsSunk() {
			count++
		}
	}
	return count
}

// HasShipOfType reports whether a ship of type t has been placed
func (b *Board) HasShipOfType(t ShipType) bool {
	for _, ship := range b.ships {
		if ship.Type() == t {
			return true
		}
	}
	return false
}

// Grid lays the cell states out as rows indexed by y
func (b *Board) Grid() [][]CellState {
	grid := make([][]CellState, b.size)
	for y := 0; y < b.size; y++ {
		row := make([]CellState, b.size)
		for x := 0; x < b.size; x++ {
			row[x] = b.cells[Coordinate{X: x, Y: y}]
		}
		grid[y] = row
	}
	return grid
}
