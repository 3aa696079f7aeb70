package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
)

// gameServiceImpl implements the GameService interface. Concurrency control
// is per session: every operation locks the target session for its whole
// lookup-check-mutate span, so two games never contend with each other.
type gameServiceImpl struct {
	sessions SessionManager
	defaults engine.Rules
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager) GameService {
	return NewGameServiceWithRules(sessions, engine.DefaultRules())
}

// NewGameServiceWithRules creates a game service whose games use the given
// rules when a create or matchmaking request does not supply its own.
func NewGameServiceWithRules(sessions SessionManager, defaults engine.Rules) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		defaults: defaults,
	}
}

// withSession looks up a session and runs fn while holding its lock, then
// touches the activity timestamp and autosaves. Errors from fn flow out
// unchanged so the transports can map them.
func (s *gameServiceImpl) withSession(gameID string, fn func(sess *Session) error) error {
	sess, err := s.sessions.Get(gameID)
	if err != nil {
		return err
	}
	sess.Lock()
	err = fn(sess)
	sess.Touch()
	sess.Unlock()
	if err != nil {
		return err
	}
	if err := s.sessions.Save(sess.ID); err != nil {
		log.Warn().Err(err).Str("game_id", sess.ID).Msg("failed to persist session")
	}
	return nil
}

// readSession is withSession without the autosave, for operations that do
// not change game state
func (s *gameServiceImpl) readSession(gameID string, fn func(sess *Session) error) error {
	sess, err := s.sessions.Get(gameID)
	if err != nil {
		return err
	}
	sess.Lock()
	defer sess.Unlock()
	return fn(sess)
}

// CreateGame creates an empty game waiting for players
func (s *gameServiceImpl) CreateGame(ctx context.Context, rules *engine.Rules) (*GameInfo, error) {
	r := s.defaults
	if rules != nil {
		r = *rules
	}

	sess, err := s.sessions.Create("", r)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	sess.Lock()
	info := &GameInfo{
		GameID:    sess.ID,
		Phase:     sess.Game.Phase(),
		Rules:     sess.Game.Rules(),
		CreatedAt: sess.CreatedAt,
	}
	sess.Unlock()
	return info, nil
}

// JoinGame adds a player to a game. With an empty gameID the player is
// matched into the oldest open game, or a fresh one when none is waiting.
// The second join starts ship placement.
func (s *gameServiceImpl) JoinGame(ctx context.Context, gameID, playerID, playerName string) (*JoinResult, error) {
	if _, err := s.sessions.ForPlayer(playerID); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyInGame, playerID)
	}

	var sess *Session
	var err error
	switch {
	case gameID != "":
		sess, err = s.sessions.Get(gameID)
		if err != nil {
			return nil, err
		}
	default:
		if open, ok := s.sessions.FindOpen(); ok {
			sess = open
		} else {
			sess, err = s.sessions.Create("", s.defaults)
			if err != nil {
				return nil, fmt.Errorf("failed to create game: %w", err)
			}
		}
	}

	sess.Lock()
	if err := sess.Game.AddPlayer(playerID); err != nil {
		sess.Unlock()
		return nil, err
	}
	meta := &PlayerMeta{
		ID:        playerID,
		Name:      playerName,
		Token:     uuid.NewString(),
		Connected: true,
		JoinedAt:  time.Now(),
	}
	sess.Players[playerID] = meta
	if sess.Game.PlayerCount() == engine.MaxPlayers {
		if err := sess.Game.Start(); err != nil {
			sess.Unlock()
			return nil, err
		}
	}
	result := &JoinResult{
		GameID:      sess.ID,
		PlayerID:    playerID,
		PlayerName:  playerName,
		Token:       meta.Token,
		Phase:       sess.Game.Phase(),
		PlayerCount: sess.Game.PlayerCount(),
	}
	if opponent := sess.OpponentMeta(playerID); opponent != nil {
		result.OpponentID = opponent.ID
		result.OpponentName = opponent.Name
	}
	sess.Touch()
	sess.Unlock()

	s.sessions.BindPlayer(playerID, sess.ID)
	if err := s.sessions.Save(sess.ID); err != nil {
		log.Warn().Err(err).Str("game_id", sess.ID).Msg("failed to persist session after join")
	}
	return result, nil
}

// Reconnect re-attaches a player to their game. The token minted at join
// must match.
func (s *gameServiceImpl) Reconnect(ctx context.Context, gameID, playerID, token string) (*engine.PlayerView, error) {
	var view *engine.PlayerView
	err := s.withSession(gameID, func(sess *Session) error {
		meta := sess.Meta(playerID)
		if meta == nil {
			return fmt.Errorf("%w: %q", ErrPlayerNotInGame, playerID)
		}
		if meta.Token != token {
			return fmt.Errorf("%w: player %q", ErrInvalidToken, playerID)
		}
		meta.Connected = true
		v, err := sess.Game.PublicStateFor(playerID)
		if err != nil {
			return err
		}
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// VerifyToken checks a player's reconnect token without touching connection
// state
func (s *gameServiceImpl) VerifyToken(ctx context.Context, gameID, playerID, token string) error {
	return s.readSession(gameID, func(sess *Session) error {
		meta := sess.Meta(playerID)
		if meta == nil {
			return fmt.Errorf("%w: %q", ErrPlayerNotInGame, playerID)
		}
		if meta.Token != token {
			return fmt.Errorf("%w: player %q", ErrInvalidToken, playerID)
		}
		return nil
	})
}

// DeleteGame removes a game and its persisted state
func (s *gameServiceImpl) DeleteGame(ctx context.Context, gameID string) error {
	return s.sessions.Delete(gameID)
}

// shipID derives the board-unique ship id from its type; the engine enforces
// one ship per type so the type name is sufficient.
func shipID(t engine.ShipType) string {
	return strings.ToLower(string(t))
}

// buildShip turns a wire spec into an engine ship
func buildShip(spec ShipSpec) (*engine.Ship, error) {
	return engine.NewShipAt(shipID(spec.Type), spec.Type, spec.Orientation, spec.Start)
}

// placementResult assembles the placement progress for playerID. Callers
// hold the session lock.
func placementResult(sess *Session, playerID string) (*PlacementResult, error) {
	placed, err := sess.Game.ShipsPlacedBy(playerID)
	if err != nil {
		return nil, err
	}
	meta := sess.Meta(playerID)
	return &PlacementResult{
		GameID:      sess.ID,
		PlayerID:    playerID,
		ShipsPlaced: placed,
		FleetSize:   len(sess.Rules.Fleet),
		Ready:       meta != nil && meta.Ready,
		Phase:       sess.Game.Phase(),
		CurrentTurn: sess.Game.CurrentTurn(),
	}, nil
}

// PlaceFleet replaces the player's entire fleet in one call and marks them
// ready. When both players have complete fleets the game starts.
func (s *gameServiceImpl) PlaceFleet(ctx context.Context, gameID, playerID string, ships []ShipSpec) (*PlacementResult, error) {
	var result *PlacementResult
	err := s.withSession(gameID, func(sess *Session) error {
		meta := sess.Meta(playerID)
		if meta == nil {
			return fmt.Errorf("%w: %q", ErrPlayerNotInGame, playerID)
		}

		built := make([]*engine.Ship, 0, len(ships))
		for _, spec := range ships {
			ship, err := buildShip(spec)
			if err != nil {
				return err
			}
			built = append(built, ship)
		}

		// Wipe any previous placement so a resubmitted fleet starts clean
		if err := sess.Game.ClearShips(playerID); err != nil {
			return err
		}
		meta.Ready = false
		for _, ship := range built {
			if err := sess.Game.PlaceShip(playerID, ship); err != nil {
				return err
			}
		}

		placed, err := sess.Game.ShipsPlacedBy(playerID)
		if err != nil {
			return err
		}
		if placed != len(sess.Rules.Fleet) {
			return fmt.Errorf("%w: %d of %d ships placed", ErrFleetIncomplete, placed, len(sess.Rules.Fleet))
		}
		meta.Ready = true

		s.maybeStartPlay(sess)
		result, err = placementResult(sess, playerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PlaceShip places a single ship, for transports that build fleets
// incrementally
func (s *gameServiceImpl) PlaceShip(ctx context.Context, gameID, playerID string, ship ShipSpec) (*PlacementResult, error) {
	var result *PlacementResult
	err := s.withSession(gameID, func(sess *Session) error {
		if sess.Meta(playerID) == nil {
			return fmt.Errorf("%w: %q", ErrPlayerNotInGame, playerID)
		}
		built, err := buildShip(ship)
		if err != nil {
			return err
		}
		if err := sess.Game.PlaceShip(playerID, built); err != nil {
			return err
		}
		result, err = placementResult(sess, playerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveShip withdraws a placed ship during placement
func (s *gameServiceImpl) RemoveShip(ctx context.Context, gameID, playerID, shipID string) (*PlacementResult, error) {
	var result *PlacementResult
	err := s.withSession(gameID, func(sess *Session) error {
		meta := sess.Meta(playerID)
		if meta == nil {
			return fmt.Errorf("%w: %q", ErrPlayerNotInGame, playerID)
		}
		if err := sess.Game.RemoveShip(playerID, shipID); err != nil {
			return err
		}
		meta.Ready = false
		var err error
		result, err = placementResult(sess, playerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Ready marks a player's fleet final. Requires the full fleet on the board.
func (s *gameServiceImpl) Ready(ctx context.Context, gameID, playerID string) (*ReadyResult, error) {
	var result *ReadyResult
	err := s.withSession(gameID, func(sess *Session) error {
		meta := sess.Meta(playerID)
		if meta == nil {
			return fmt.Errorf("%w: %q", ErrPlayerNotInGame, playerID)
		}
		placed, err := sess.Game.ShipsPlacedBy(playerID)
		if err != nil {
			return err
		}
		if placed != len(sess.Rules.Fleet) {
			return fmt.Errorf("%w: %d of %d ships placed", ErrFleetIncomplete, placed, len(sess.Rules.Fleet))
		}
		meta.Ready = true

		s.maybeStartPlay(sess)
		result = &ReadyResult{
			GameID:      sess.ID,
			PlayerID:    playerID,
			BothReady:   s.bothReady(sess),
			Phase:       sess.Game.Phase(),
			CurrentTurn: sess.Game.CurrentTurn(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// bothReady reports whether two players have joined and both are ready.
// Callers hold the session lock.
func (s *gameServiceImpl) bothReady(sess *Session) bool {
	if len(sess.Players) != engine.MaxPlayers {
		return false
	}
	for _, meta := range sess.Players {
		if !meta.Ready {
			return false
		}
	}
	return true
}

// maybeStartPlay starts the battle once both players are ready with full
// fleets. Callers hold the session lock.
func (s *gameServiceImpl) maybeStartPlay(sess *Session) {
	if sess.Game.Phase() != engine.PhasePlacingShips {
		return
	}
	if !s.bothReady(sess) || !sess.Game.AllShipsPlaced() {
		return
	}
	if err := sess.Game.FinishShipPlacement(); err != nil {
		log.Error().Err(err).Str("game_id", sess.ID).Msg("failed to start play")
	}
}

// Attack resolves one attack and reports whose turn follows
func (s *gameServiceImpl) Attack(ctx context.Context, gameID, playerID string, c engine.Coordinate) (*AttackReport, error) {
	var report *AttackReport
	err := s.withSession(gameID, func(sess *Session) error {
		if sess.Meta(playerID) == nil {
			return fmt.Errorf("%w: %q", ErrPlayerNotInGame, playerID)
		}
		result, err := sess.Game.Attack(playerID, c)
		if err != nil {
			return err
		}
		report = &AttackReport{
			GameID:   sess.ID,
			PlayerID: playerID,
			Result:   result,
			NextTurn: sess.Game.CurrentTurn(),
			Finished: sess.Game.IsFinished(),
			Winner:   sess.Game.Winner(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Surrender forfeits the game; the opponent wins immediately
func (s *gameServiceImpl) Surrender(ctx context.Context, gameID, playerID string) (*GameOverInfo, error) {
	var info *GameOverInfo
	err := s.withSession(gameID, func(sess *Session) error {
		if sess.Meta(playerID) == nil {
			return fmt.Errorf("%w: %q", ErrPlayerNotInGame, playerID)
		}
		if err := sess.Game.Forfeit(playerID); err != nil {
			return err
		}
		info = &GameOverInfo{
			GameID: sess.ID,
			Winner: sess.Game.Winner(),
			Loser:  playerID,
			Reason: ReasonSurrender,
			Result: sess.Game.Result(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// GameState returns the game as playerID is allowed to see it
func (s *gameServiceImpl) GameState(ctx context.Context, gameID, playerID string) (*engine.PlayerView, error) {
	var view *engine.PlayerView
	err := s.readSession(gameID, func(sess *Session) error {
		v, err := sess.Game.PublicStateFor(playerID)
		if err != nil {
			return err
		}
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GameResult returns the final summary of a finished game
func (s *gameServiceImpl) GameResult(ctx context.Context, gameID string) (*engine.GameOverResult, error) {
	var result *engine.GameOverResult
	err := s.readSession(gameID, func(sess *Session) error {
		result = sess.Game.Result()
		if result == nil {
			return fmt.Errorf("%w: game %q is %s", ErrGameNotFinished, sess.ID, sess.Game.Phase())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *gameServiceImpl) Rules(ctx context.Context, gameID string) (*engine.Rules, error) {
	var rules engine.Rules
	err := s.readSession(gameID, func(sess *Session) error {
		rules = sess.Rules
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rules, nil
}

// gameStats summarizes one session. Locks the session briefly.
func gameStats(sess *Session) *GameStats {
	sess.Lock()
	defer sess.Unlock()

	stats := &GameStats{
		GameID:         sess.ID,
		Phase:          sess.Game.Phase(),
		PlayerCount:    sess.Game.PlayerCount(),
		MoveCount:      sess.Game.MoveCount(),
		CurrentTurn:    sess.Game.CurrentTurn(),
		Winner:         sess.Game.Winner(),
		CreatedAt:      sess.CreatedAt,
		LastActivityAt: sess.LastActivityAt,
	}
	for _, id := range sess.Game.PlayerIDs() {
		stats.Players = append(stats.Players, id)
	}
	return stats
}

// ListGames summarizes every session in the registry
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*GameStats, error) {
	sessions := s.sessions.List()
	result := make([]*GameStats, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, gameStats(sess))
	}
	return result, nil
}

// Stats aggregates the registry by phase
func (s *gameServiceImpl) Stats(ctx context.Context) (*ServiceStats, error) {
	stats := &ServiceStats{}
	for _, sess := range s.sessions.List() {
		sess.Lock()
		stats.TotalGames++
		switch sess.Game.Phase() {
		case engine.PhaseWaitingForPlayers:
			stats.WaitingGames++
		case engine.PhasePlacingShips:
			stats.PlacingGames++
		case engine.PhaseInProgress:
			stats.ActiveGames++
		case engine.PhaseFinished:
			stats.FinishedGames++
		}
		stats.ConnectedPlayers += sess.ConnectedCount()
		sess.Unlock()
	}
	return stats, nil
}

// Disconnect marks a player disconnected. The seat is held for reconnection
// until the session expires.
func (s *gameServiceImpl) Disconnect(ctx context.Context, gameID, playerID string) error {
	return s.withSession(gameID, func(sess *Session) error {
		meta := sess.Meta(playerID)
		if meta == nil {
			return fmt.Errorf("%w: %q", ErrPlayerNotInGame, playerID)
		}
		meta.Connected = false
		return nil
	})
}
