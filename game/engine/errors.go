package engine

import (
	"errors"
	"fmt"
)

// Error kinds raised by the engine. Callers add context with fmt.Errorf and
// %w, so errors.Is against these sentinels classifies any engine failure.
// Expected gameplay alternatives (miss, repeat attack, out-of-bounds attack
// through Player.ReceiveAttack) are AttackOutcome values instead.
var (
	// ErrInvalidCoordinate marks a coordinate outside the board bounds.
	ErrInvalidCoordinate = errors.New("coordinate out of bounds")

	// ErrShipPlacement marks a structurally invalid placement: broken run,
	// duplicate type, or a type outside the game's fleet.
	ErrShipPlacement = errors.New("invalid ship placement")

	// ErrShipOverlap is a placement failure caused by an occupied cell. It
	// wraps ErrShipPlacement, so errors.Is matches it as both kinds.
	ErrShipOverlap = fmt.Errorf("%w: overlaps an existing ship", ErrShipPlacement)

	// ErrInvalidShip marks a ship that could not be constructed: position
	// count mismatched to its type, empty id, unknown type or orientation.
	ErrInvalidShip = errors.New("invalid ship")

	// ErrGameState marks an operation invoked in a phase that forbids it.
	ErrGameState = errors.New("invalid game state")

	// ErrPlayer marks a player-level violation: unknown or duplicate id,
	// player limit reached, or attacking out of turn.
	ErrPlayer = errors.New("player error")

	// ErrInvalidAttack is reserved for attack-specific structural misuse,
	// distinct from the OutcomeInvalidCoordinate result value.
	ErrInvalidAttack = errors.New("invalid attack")
)
