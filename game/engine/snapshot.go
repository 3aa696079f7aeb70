package engine

import (
	"fmt"
	"sort"
)

// ShipSnapshot captures one placed ship for persistence
type ShipSnapshot struct {
	ID          string       `json:"id"`
	Type        ShipType     `json:"type"`
	Orientation Orientation  `json:"orientation"`
	Positions   []Coordinate `json:"positions"`
	Hits        []Coordinate `json:"hits,omitempty"`
}

// PlayerSnapshot captures one player's boards for persistence. Cell states
// are not stored; they are re-derived from ships, hits and the attacked set.
type PlayerSnapshot struct {
	ID             string         `json:"id"`
	Ships          []ShipSnapshot `json:"ships,omitempty"`
	Attacked       []Coordinate   `json:"attacked,omitempty"`
	TrackingHits   []Coordinate   `json:"tracking_hits,omitempty"`
	TrackingMisses []Coordinate   `json:"tracking_misses,omitempty"`
}

// GameSnapshot is a lossless, JSON-ready dump of a game
type GameSnapshot struct {
	Rules       Rules            `json:"rules"`
	Phase       GamePhase        `json:"phase"`
	CurrentTurn string           `json:"current_turn,omitempty"`
	MoveCount   int              `json:"move_count"`
	Winner      string           `json:"winner,omitempty"`
	Players     []PlayerSnapshot `json:"players,omitempty"`
}

// Snapshot captures the complete game state. Players keep their join order;
// ship and coordinate lists are sorted so snapshots are deterministic.
func (g *Game) Snapshot() GameSnapshot {
	snap := GameSnapshot{
		Rules:       g.Rules(),
		Phase:       g.phase,
		CurrentTurn: g.currentTurn,
		MoveCount:   g.moveCount,
		Winner:      g.winner,
	}
	for _, pid := range g.playerOrder {
		player := g.players[pid]
		ps := PlayerSnapshot{
			ID:       pid,
			Attacked: player.board.AttackedCoordinates(),
		}
		for _, ship := range player.board.ships {
			ps.Ships = append(ps.Ships, ShipSnapshot{
				ID:          ship.ID(),
				Type:        ship.Type(),
				Orientation: ship.Orientation(),
				Positions:   ship.Positions(),
				Hits:        ship.Hits(),
			})
		}
		sortShipSnapshots(ps.Ships)
		for c, state := range player.tracking.cells {
			switch state {
			case CellHit:
				ps.TrackingHits = append(ps.TrackingHits, c)
			case CellMiss:
				ps.TrackingMisses = append(ps.TrackingMisses, c)
			}
		}
		sortCoordinates(ps.TrackingHits)
		sortCoordinates(ps.TrackingMisses)
		snap.Players = append(snap.Players, ps)
	}
	return snap
}

// RestoreGame rebuilds a game from a snapshot, re-validating every placement
// and phase invariant on the way. Cell states are reconstructed from the
// ships, their hits and the attacked set.
func RestoreGame(snap GameSnapshot) (*Game, error) {
	g, err := NewGame(snap.Rules)
	if err != nil {
		return nil, err
	}
	switch snap.Phase {
	case PhaseWaitingForPlayers, PhasePlacingShips, PhaseInProgress, PhaseFinished:
	default:
		return nil, fmt.Errorf("%w: unknown phase %q", ErrGameState, snap.Phase)
	}
	if len(snap.Players) > MaxPlayers {
		return nil, fmt.Errorf("%w: snapshot has %d players", ErrPlayer, len(snap.Players))
	}
	if snap.Phase != PhaseWaitingForPlayers && len(snap.Players) != MaxPlayers {
		return nil, fmt.Errorf("%w: phase %s requires %d players", ErrGameState, snap.Phase, MaxPlayers)
	}

	for _, ps := range snap.Players {
		if err := g.AddPlayer(ps.ID); err != nil {
			return nil, err
		}
	}
	for _, ps := range snap.Players {
		player := g.players[ps.ID]
		for _, ss := range ps.Ships {
			ship, err := NewShip(ss.ID, ss.Type, ss.Orientation, ss.Positions)
			if err != nil {
				return nil, fmt.Errorf("restore player %q: %w", ps.ID, err)
			}
			if err := player.board.PlaceShip(ship); err != nil {
				return nil, fmt.Errorf("restore player %q: %w", ps.ID, err)
			}
			for _, c := range ss.Hits {
				if !ship.RegisterHit(c) {
					return nil, fmt.Errorf("restore player %q: hit %s outside ship %q", ps.ID, c, ss.ID)
				}
				if err := player.board.setCellState(c, CellHit); err != nil {
					return nil, fmt.Errorf("restore player %q: %w", ps.ID, err)
				}
			}
		}
		for _, c := range ps.Attacked {
			if !player.board.IsValidCoordinate(c) {
				return nil, fmt.Errorf("restore player %q: attacked %w: %s", ps.ID, ErrInvalidCoordinate, c)
			}
			player.board.attacked[c] = true
			if player.board.ShipAt(c) == nil {
				player.board.cells[c] = CellMiss
			}
		}
		for _, c := range ps.TrackingHits {
			if err := player.tracking.setCellState(c, CellHit); err != nil {
				return nil, fmt.Errorf("restore player %q tracking: %w", ps.ID, err)
			}
		}
		for _, c := range ps.TrackingMisses {
			if err := player.tracking.setCellState(c, CellMiss); err != nil {
				return nil, fmt.Errorf("restore player %q tracking: %w", ps.ID, err)
			}
		}
	}

	if snap.CurrentTurn != "" && !g.HasPlayer(snap.CurrentTurn) {
		return nil, fmt.Errorf("%w: current turn %q is not a player", ErrPlayer, snap.CurrentTurn)
	}
	if snap.Winner != "" && !g.HasPlayer(snap.Winner) {
		return nil, fmt.Errorf("%w: winner %q is not a player", ErrPlayer, snap.Winner)
	}
	g.phase = snap.Phase
	g.currentTurn = snap.CurrentTurn
	g.moveCount = snap.MoveCount
	g.winner = snap.Winner
	return g, nil
}

// sortShipSnapshots orders ship snapshots by id for deterministic output
func sortShipSnapshots(ships []ShipSnapshot) {
	sort.Slice(ships, func(i, j int) bool {
		return ships[i].ID < ships[j].ID
	})
}
