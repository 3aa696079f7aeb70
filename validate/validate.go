// Package validate checks transport input before it reaches the game service:
// player names and ids, ship specifications, whole fleets and attack
// coordinates. The engine re-validates structure on its own; these checks
// exist so transports can reject garbage with a friendly message instead of
// surfacing an engine error.
//
// Ship specs arriving from clients are normalized in place (ship type and
// orientation are case-insensitive on the wire), so call ShipSpec or Fleet
// before handing specs to the service.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
	"github.com/LudwigRoderich/BatallaNaval/game/service"
)

const (
	// MinPlayerNameLength and MaxPlayerNameLength bound display names.
	MinPlayerNameLength = 2
	MaxPlayerNameLength = 30

	// MaxPlayerIDLength bounds player ids, which appear in URLs and log lines.
	MaxPlayerIDLength = 64
)

var playerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)

// PlayerName validates a display name: 2-30 characters, letters, digits,
// underscore, hyphen and inner spaces only.
func PlayerName(name string) error {
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("player name must not have leading or trailing spaces")
	}
	if len(name) < MinPlayerNameLength {
		return fmt.Errorf("player name must be at least %d characters", MinPlayerNameLength)
	}
	if len(name) > MaxPlayerNameLength {
		return fmt.Errorf("player name must be at most %d characters", MaxPlayerNameLength)
	}
	if !playerNamePattern.MatchString(name) {
		return fmt.Errorf("player name contains invalid characters")
	}
	return nil
}

// PlayerID validates a player identifier: non-empty and at most 64 characters.
func PlayerID(id string) error {
	if id == "" {
		return fmt.Errorf("player id must not be empty")
	}
	if len(id) > MaxPlayerIDLength {
		return fmt.Errorf("player id must be at most %d characters", MaxPlayerIDLength)
	}
	return nil
}

// Coordinate validates that c lies on a boardSize x boardSize board.
func Coordinate(c engine.Coordinate, boardSize int) error {
	if c.X < 0 || c.X >= boardSize || c.Y < 0 || c.Y >= boardSize {
		return fmt.Errorf("coordinate %s is outside the %dx%d board", c, boardSize, boardSize)
	}
	return nil
}

// ShipSpec validates one ship specification against the board size and
// normalizes its type and orientation to the engine's canonical uppercase
// form. The full geometry check (fit, overlap, alignment) stays with the
// engine; this only rejects specs the engine could not even interpret.
func ShipSpec(spec *service.ShipSpec, boardSize int) error {
	if spec == nil {
		return fmt.Errorf("ship spec must not be nil")
	}
	spec.Type = engine.ShipType(strings.ToUpper(string(spec.Type)))
	spec.Orientation = engine.Orientation(strings.ToUpper(string(spec.Orientation)))

	if !spec.Type.Valid() {
		return fmt.Errorf("unknown ship type %q", spec.Type)
	}
	if !spec.Orientation.Valid() {
		return fmt.Errorf("orientation must be %q or %q", engine.Horizontal, engine.Vertical)
	}
	if err := Coordinate(spec.Start, boardSize); err != nil {
		return fmt.Errorf("ship start: %w", err)
	}
	return nil
}

// Fleet validates a full fleet submission against the rules: every spec well
// formed, no duplicate ship types, and the composition exactly matching the
// rules' fleet. Specs are normalized in place like ShipSpec does.
func Fleet(specs []service.ShipSpec, rules engine.Rules) error {
	if len(specs) != len(rules.Fleet) {
		return fmt.Errorf("fleet must have exactly %d ships, got %d", len(rules.Fleet), len(specs))
	}

	seen := make(map[engine.ShipType]bool)
	for i := range specs {
		if err := ShipSpec(&specs[i], rules.BoardSize); err != nil {
			return fmt.Errorf("ship %d: %w", i+1, err)
		}
		if seen[specs[i].Type] {
			return fmt.Errorf("duplicate ship type %q", specs[i].Type)
		}
		seen[specs[i].Type] = true
	}

	for _, want := range rules.Fleet {
		if !seen[want] {
			return fmt.Errorf("fleet is missing a %s", want)
		}
	}
	return nil
}
