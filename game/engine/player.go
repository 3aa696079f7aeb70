package engine

import "fmt"

// Player pairs a player's own board (real ships) with a tracking board
// recording only the outcomes of the player's attacks on the opponent. The
// tracking board never learns unattacked opponent ship positions.
type Player struct {
	id       string
	board    *Board
	tracking *Board
}

// NewPlayer creates a player with a fresh pair of empty boards
func NewPlayer(id string, boardSize int) (*Player, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: player id must not be empty", ErrPlayer)
	}
	board, err := NewBoard(boardSize)
	if err != nil {
		return nil, err
	}
	tracking, err := NewBoard(boardSize)
	if err != nil {
		return nil, err
	}
	return &Player{id: id, board: board, tracking: tracking}, nil
}

// ID returns the player's identity
func (p *Player) ID() string {
	return p.id
}

// PlaceShip places a ship on the player's own board, wrapping any board
// failure with player context. The underlying error kind stays matchable
// through errors.Is.
func (p *Player) PlaceShip(ship *Ship) error {
	if err := p.board.PlaceShip(ship); err != nil {
		return fmt.Errorf("%w: player %q: %w", ErrPlayer, p.id, err)
	}
	return nil
}

// ReceiveAttack resolves an attack against the player's own board.
// Out-of-bounds and repeated coordinates are reported as outcomes rather
// than errors; repeats short-circuit before the board is touched.
func (p *Player) ReceiveAttack(c Coordinate) AttackOutcome {
	if !p.board.IsValidCoordinate(c) {
		return OutcomeInvalidCoordinate
	}
	if p.board.HasBeenAttacked(c) {
		return OutcomeAlreadyAttacked
	}
	hit, err := p.board.MarkHit(c)
	if err != nil {
		return OutcomeInvalidCoordinate
	}
	if !hit {
		return OutcomeMiss
	}
	if ship := p.board.ShipAt(c); ship != nil && ship.IsSunk() {
		return OutcomeShipSunk
	}
	return OutcomeHit
}

// UpdateTrackingBoard records an observed outcome of the player's own
// attack. Only HIT, SHIP_SUNK and MISS leave a mark; other outcomes leave
// the tracking board untouched.
func (p *Player) UpdateTrackingBoard(c Coordinate, outcome AttackOutcome) {
	switch outcome {
	case OutcomeHit, OutcomeShipSunk:
		_ = p.tracking.setCellState(c, CellHit)
	case OutcomeMiss:
		_ = p.tracking.setCellState(c, CellMiss)
	}
}

// AllShipsSunk reports whether every ship on the player's own board is sunk
func (p *Player) AllShipsSunk() bool {
	return p.board.AllShipsSunk()
}

// HasShipAt reports whether one of the player's ships covers c
func (p *Player) HasShipAt(c Coordinate) bool {
	return p.board.ShipAt(c) != nil
}

// Ships returns the player's placed ships keyed by id (map copy)
func (p *Player) Ships() map[string]*Ship {
	return p.board.Ships()
}

// ShipCount returns the number of ships the player has placed
func (p *Player) ShipCount() int {
	return p.board.ShipCount()
}

// AllShipsPlaced reports whether every ship type in fleet is on the
// player's own board
func (p *Player) AllShipsPlaced(fleet []ShipType) bool {
	for _, t := range fleet {
		if !p.board.HasShipOfType(t) {
			return false
		}
	}
	return true
}

// PublicBoardState produces the externally safe view of the player's own
// board: ship cells are reported as unknown, hits and misses as observed.
// This is the only sanctioned way to expose a board outside the engine.
func (p *Player) PublicBoardState() map[Coordinate]PublicCellState {
	out := make(map[Coordinate]PublicCellState, len(p.board.cells))
	for c, state := range p.board.cells {
		switch state {
		case CellShip:
			out[c] = PublicUnknown
		case CellHit:
			out[c] = PublicHit
		case CellMiss:
			out[c] = PublicMiss
		default:
			out[c] = PublicEmpty
		}
	}
	return out
}
