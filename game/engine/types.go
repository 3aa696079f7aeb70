package engine

import (
	"fmt"
	"sort"
)

// CellState represents the state of a single board cell
type CellState string

const (
	CellEmpty CellState = "EMPTY"
	CellShip  CellState = "SHIP"
	CellHit   CellState = "HIT"
	CellMiss  CellState = "MISS"
)

// AttackOutcome classifies the result of a single attack. Outcomes are
// ordinary result values: repeated or out-of-bounds attacks are reported
// through them, never as errors.
type AttackOutcome string

const (
	OutcomeHit               AttackOutcome = "HIT"
	OutcomeMiss              AttackOutcome = "MISS"
	OutcomeShipSunk          AttackOutcome = "SHIP_SUNK"
	OutcomeAlreadyAttacked   AttackOutcome = "ALREADY_ATTACKED"
	OutcomeInvalidCoordinate AttackOutcome = "INVALID_COORDINATE"
)

// GamePhase represents a stage of the game state machine. Phases advance in
// one direction only: WAITING_FOR_PLAYERS, PLACING_SHIPS, IN_PROGRESS,
// FINISHED.
type GamePhase string

const (
	PhaseWaitingForPlayers GamePhase = "WAITING_FOR_PLAYERS"
	PhasePlacingShips      GamePhase = "PLACING_SHIPS"
	PhaseInProgress        GamePhase = "IN_PROGRESS"
	PhaseFinished          GamePhase = "FINISHED"
)

// ShipType identifies a ship class and fixes its length
type ShipType string

const (
	Battleship ShipType = "BATTLESHIP"
	Cruiser    ShipType = "CRUISER"
	Destroyer  ShipType = "DESTROYER"
	Submarine  ShipType = "SUBMARINE"
)

// Length returns the number of cells a ship of this type occupies
func (t ShipType) Length() int {
	switch t {
	case Battleship:
		return 4
	case Cruiser:
		return 3
	case Destroyer:
		return 2
	case Submarine:
		return 1
	default:
		return 0
	}
}

// Valid reports whether t is a known ship type
func (t ShipType) Valid() bool {
	return t.Length() > 0
}

// ShipTypes returns every ship type, largest first
func ShipTypes() []ShipType {
	return []ShipType{Battleship, Cruiser, Destroyer, Submarine}
}

// Orientation is the axis a ship lies along. It is declared explicitly when a
// ship is built because a length-1 submarine's axis cannot be read off its
// positions.
type Orientation string

const (
	Horizontal Orientation = "HORIZONTAL"
	Vertical   Orientation = "VERTICAL"
)

// Valid reports whether o is a known orientation
func (o Orientation) Valid() bool {
	return o == Horizontal || o == Vertical
}

// PublicCellState is a cell as shown to the opponent: ship cells are masked
// as unknown until hit
type PublicCellState string

const (
	PublicUnknown PublicCellState = "unknown"
	PublicHit     PublicCellState = "hit"
	PublicMiss    PublicCellState = "miss"
	PublicEmpty   PublicCellState = "empty"
)

const (
	// DefaultBoardSize is the classic 10x10 grid
	DefaultBoardSize = 10
	// MaxPlayers is fixed: battleship is a two-player game
	MaxPlayers = 2
)

// Coordinate is an immutable 2D grid position. It is comparable and usable
// as a map key; bounds are enforced by the Board, not here.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the coordinate as "(x, y)"
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// sortCoordinates orders coordinates by x, then y
func sortCoordinates(coords []Coordinate) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Y < coords[j].Y
	})
}

// AttackResult describes the resolution of one attack call
type AttackResult struct {
	Outcome            AttackOutcome `json:"outcome"`
	ShipSunk           bool          `json:"ship_sunk"`
	SunkShipType       ShipType      `json:"sunk_ship_type,omitempty"`
	GameFinished       bool          `json:"game_finished"`
	DefenderID         string        `json:"defender_id"`
	AttackedCoordinate Coordinate    `json:"attacked_coordinate"`
}

// GameOverResult summarizes a finished game. WinningMoves counts the hits
// recorded on the winner's tracking board; TotalMoves counts every attack
// call made in the game, whatever its outcome.
type GameOverResult struct {
	WinnerID     string `json:"winner_id"`
	LoserID      string `json:"loser_id"`
	TotalMoves   int    `json:"total_moves"`
	WinningMoves int    `json:"winning_moves"`
}

// PlayerView is the game as one player is allowed to see it: their own board
// in full, the opponent's board masked through PublicCellState.
type PlayerView struct {
	PlayerID          string              `json:"player_id"`
	Phase             GamePhase           `json:"phase"`
	YourTurn          bool                `json:"your_turn"`
	MoveCount         int                 `json:"move_count"`
	OwnShipCount      int                 `json:"own_ship_count"`
	OwnBoard          [][]CellState       `json:"own_board,omitempty"`
	OpponentID        string              `json:"opponent_id,omitempty"`
	OpponentBoard     [][]PublicCellState `json:"opponent_board,omitempty"`
	OpponentShipsSunk int                 `json:"opponent_ships_sunk"`
	Finished          bool                `json:"finished"`
	Winner            string              `json:"winner,omitempty"`
}
