package engine

import "fmt"

// Rules parameterize a game: board dimensions and fleet composition. The
// zero value is not playable; use DefaultRules for the standard game.
type Rules struct {
	BoardSize int        `json:"board_size"`
	Fleet     []ShipType `json:"fleet"`
}

// DefaultRules returns the standard 10x10 game with one ship of each type
// per player.
func DefaultRules() Rules {
	return Rules{
		BoardSize: DefaultBoardSize,
		Fleet:     ShipTypes(),
	}
}

// Validate checks the rules for playability
func (r Rules) Validate() error {
	if r.BoardSize < 1 {
		return fmt.Errorf("rules: board size must be at least 1, got %d", r.BoardSize)
	}
	if len(r.Fleet) == 0 {
		return fmt.Errorf("rules: fleet must contain at least one ship type")
	}
	seen := make(map[ShipType]bool, len(r.Fleet))
	for _, t := range r.Fleet {
		if !t.Valid() {
			return fmt.Errorf("rules: unknown ship type %q", t)
		}
		if seen[t] {
			return fmt.Errorf("rules: duplicate ship type %q in fleet", t)
		}
		seen[t] = true
		if t.Length() > r.BoardSize {
			return fmt.Errorf("rules: %s (length %d) does not fit on a %dx%d board",
				t, t.Length(), r.BoardSize, r.BoardSize)
		}
	}
	return nil
}

// InFleet reports whether the fleet includes ships of type t
func (r Rules) InFleet(t ShipType) bool {
	for _, ft := range r.Fleet {
		if ft == t {
			return true
		}
	}
	return false
}

// clone returns a copy whose fleet slice is independent of the original
func (r Rules) clone() Rules {
	out := r
	out.Fleet = append([]ShipType(nil), r.Fleet...)
	return out
}
