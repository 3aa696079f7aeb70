package service

import (
	"time"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
)

// GameInfo describes a freshly created game
type GameInfo struct {
	GameID    string           `json:"game_id"`
	Phase     engine.GamePhase `json:"phase"`
	Rules     engine.Rules     `json:"rules"`
	CreatedAt time.Time        `json:"created_at"`
}

// ShipSpec is a wire-format ship: class, bow cell and axis. The bow extends
// rightwards for HORIZONTAL and downwards for VERTICAL.
type ShipSpec struct {
	Type        engine.ShipType    `json:"type"`
	Start       engine.Coordinate  `json:"start"`
	Orientation engine.Orientation `json:"orientation"`
}

// JoinResult reports a successful join: where the player landed, the token
// needed to reconnect, and who else is in the room.
type JoinResult struct {
	GameID       string           `json:"game_id"`
	PlayerID     string           `json:"player_id"`
	PlayerName   string           `json:"player_name"`
	Token        string           `json:"token"`
	Phase        engine.GamePhase `json:"phase"`
	PlayerCount  int              `json:"player_count"`
	OpponentID   string           `json:"opponent_id,omitempty"`
	OpponentName string           `json:"opponent_name,omitempty"`
}

// PlacementResult reports fleet progress after a placement operation
type PlacementResult struct {
	GameID      string           `json:"game_id"`
	PlayerID    string           `json:"player_id"`
	ShipsPlaced int              `json:"ships_placed"`
	FleetSize   int              `json:"fleet_size"`
	Ready       bool             `json:"ready"`
	Phase       engine.GamePhase `json:"phase"`
	CurrentTurn string           `json:"current_turn,omitempty"`
}

// ReadyResult reports readiness state after an explicit ready call
type ReadyResult struct {
	GameID      string           `json:"game_id"`
	PlayerID    string           `json:"player_id"`
	BothReady   bool             `json:"both_ready"`
	Phase       engine.GamePhase `json:"phase"`
	CurrentTurn string           `json:"current_turn,omitempty"`
}

// AttackReport wraps an engine attack result with whose turn comes next
type AttackReport struct {
	GameID   string              `json:"game_id"`
	PlayerID string              `json:"player_id"`
	Result   engine.AttackResult `json:"result"`
	NextTurn string              `json:"next_turn,omitempty"`
	Finished bool                `json:"finished"`
	Winner   string              `json:"winner,omitempty"`
}

// GameOverInfo describes how a game ended
type GameOverInfo struct {
	GameID string                 `json:"game_id"`
	Winner string                 `json:"winner,omitempty"`
	Loser  string                 `json:"loser,omitempty"`
	Reason string                 `json:"reason"`
	Result *engine.GameOverResult `json:"result,omitempty"`
}

// Reasons a game can end
const (
	ReasonAllShipsSunk = "all_ships_sunk"
	ReasonSurrender    = "surrender"
	ReasonTimeout      = "timeout"
)

// GameStats summarizes one session for listings
type GameStats struct {
	GameID         string           `json:"game_id"`
	Phase          engine.GamePhase `json:"phase"`
	PlayerCount    int              `json:"player_count"`
	Players        []string         `json:"players,omitempty"`
	MoveCount      int              `json:"move_count"`
	CurrentTurn    string           `json:"current_turn,omitempty"`
	Winner         string           `json:"winner,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	LastActivityAt time.Time        `json:"last_activity_at"`
}

// ServiceStats aggregates the whole registry by phase
type ServiceStats struct {
	TotalGames       int `json:"total_games"`
	WaitingGames     int `json:"waiting_games"`
	PlacingGames     int `json:"placing_games"`
	ActiveGames      int `json:"active_games"`
	FinishedGames    int `json:"finished_games"`
	ConnectedPlayers int `json:"connected_players"`
}
