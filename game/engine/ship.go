package engine

import "fmt"

// Ship is a fixed set of board cells belonging to one player. It knows which
// of its own cells have been hit; it knows nothing about the board it sits
// on. Ships are created once, never repositioned, and removed only
// explicitly before the game starts or together with their board.
type Ship struct {
	id          string
	shipType    ShipType
	orientation Orientation
	positions   map[Coordinate]bool
	hits        map[Coordinate]bool
}

// NewShip builds a ship from an explicit position set. The number of
// distinct positions must equal the type's length; the declared orientation
// is recorded as-is and checked against the positions when the ship is
// placed on a board.
func NewShip(id string, shipType ShipType, orientation Orientation, positions []Coordinate) (*Ship, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: ship id must not be empty", ErrInvalidShip)
	}
	if !shipType.Valid() {
		return nil, fmt.Errorf("%w: unknown ship type %q", ErrInvalidShip, shipType)
	}
	if !orientation.Valid() {
		return nil, fmt.Errorf("%w: unknown orientation %q", ErrInvalidShip, orientation)
	}
	posSet := make(map[Coordinate]bool, len(positions))
	for _, c := range positions {
		posSet[c] = true
	}
	if len(posSet) != shipType.Length() {
		return nil, fmt.Errorf("%w: %s requires exactly %d distinct positions, got %d",
			ErrInvalidShip, shipType, shipType.Length(), len(posSet))
	}
	return &Ship{
		id:          id,
		shipType:    shipType,
		orientation: orientation,
		positions:   posSet,
		hits:        make(map[Coordinate]bool),
	}, nil
}

// NewShipAt builds a ship from its bow coordinate, extending rightwards for
// HORIZONTAL and downwards for VERTICAL. Convenience for transports whose
// wire format carries a start cell plus an orientation.
func NewShipAt(id string, shipType ShipType, orientation Orientation, start Coordinate) (*Ship, error) {
	if !shipType.Valid() {
		return nil, fmt.Errorf("%w: unknown ship type %q", ErrInvalidShip, shipType)
	}
	if !orientation.Valid() {
		return nil, fmt.Errorf("%w: unknown orientation %q", ErrInvalidShip, orientation)
	}
	positions := make([]Coordinate, 0, shipType.Length())
	for i := 0; i < shipType.Length(); i++ {
		if orientation == Horizontal {
			positions = append(positions, Coordinate{X: start.X + i, Y: start.Y})
		} else {
			positions = append(positions, Coordinate{X: start.X, Y: start.Y + i})
		}
	}
	return NewShip(id, shipType, orientation, positions)
}

// ID returns the ship's identity, unique per player
func (s *Ship) ID() string {
	return s.id
}

// Type returns the ship's class
func (s *Ship) Type() ShipType {
	return s.shipType
}

// Orientation returns the declared axis
func (s *Ship) Orientation() Orientation {
	return s.orientation
}

// RegisterHit records a hit at c. It returns true when c belongs to the
// ship; hitting the same cell again is idempotent and never double-counts.
func (s *Ship) RegisterHit(c Coordinate) bool {
	if !s.positions[c] {
		return false
	}
	s.hits[c] = true
	return true
}

// IsHitAt reports whether c has been hit
func (s *Ship) IsHitAt(c Coordinate) bool {
	return s.hits[c]
}

// IsSunk reports whether every cell of the ship has been hit
func (s *Ship) IsSunk() bool {
	return len(s.hits) == len(s.positions)
}

// Occupies reports whether the ship covers c
func (s *Ship) Occupies(c Coordinate) bool {
	return s.positions[c]
}

// Health returns the number of unhit cells
func (s *Ship) Health() int {
	return len(s.positions) - len(s.hits)
}

// Positions returns the ship's cells as a sorted copy
func (s *Ship) Positions() []Coordinate {
	out := make([]Coordinate, 0, len(s.positions))
	for c := range s.positions {
		out = append(out, c)
	}
	sortCoordinates(out)
	return out
}

// Hits returns the hit cells as a sorted copy
func (s *Ship) Hits() []Coordinate {
	out := make([]Coordinate, 0, len(s.hits))
	for c := range s.hits {
		out = append(out, c)
	}
	sortCoordinates(out)
	return out
}
