package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
)

var (
	ErrPlayerNotInGame = errors.New("player not in game")
	ErrAlreadyInGame   = errors.New("player already in a game")
	ErrInvalidToken    = errors.New("invalid reconnect token")
	ErrFleetIncomplete = errors.New("fleet not fully placed")
	ErrGameNotFinished = errors.New("game not finished")
)

// GameService defines every battleship operation the transports expose
type GameService interface {
	// Game lifecycle
	CreateGame(ctx context.Context, rules *engine.Rules) (*GameInfo, error)
	JoinGame(ctx context.Context, gameID, playerID, playerName string) (*JoinResult, error)
	Reconnect(ctx context.Context, gameID, playerID, token string) (*engine.PlayerView, error)
	VerifyToken(ctx context.Context, gameID, playerID, token string) error
	DeleteGame(ctx context.Context, gameID string) error

	// Ship placement
	PlaceFleet(ctx context.Context, gameID, playerID string, ships []ShipSpec) (*PlacementResult, error)
	PlaceShip(ctx context.Context, gameID, playerID string, ship ShipSpec) (*PlacementResult, error)
	RemoveShip(ctx context.Context, gameID, playerID, shipID string) (*PlacementResult, error)
	Ready(ctx context.Context, gameID, playerID string) (*ReadyResult, error)

	// Play
	Attack(ctx context.Context, gameID, playerID string, c engine.Coordinate) (*AttackReport, error)
	Surrender(ctx context.Context, gameID, playerID string) (*GameOverInfo, error)

	// State
	GameState(ctx context.Context, gameID, playerID string) (*engine.PlayerView, error)
	GameResult(ctx context.Context, gameID string) (*engine.GameOverResult, error)
	Rules(ctx context.Context, gameID string) (*engine.Rules, error)
	ListGames(ctx context.Context) ([]*GameStats, error)
	Stats(ctx context.Context) (*ServiceStats, error)

	// Connection bookkeeping
	Disconnect(ctx context.Context, gameID, playerID string) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, rules engine.Rules) (*Session, error)
	Get(id string) (*Session, error)
	FindOpen() (*Session, bool)
	ForPlayer(playerID string) (*Session, error)
	BindPlayer(playerID, sessionID string)
	List() []*Session
	Delete(id string) error
	Save(id string) error
}

// PlayerMeta is the transport-facing bookkeeping for one player in a session:
// identity, display name, the token required to reconnect, and readiness and
// connection flags. The engine knows none of this.
type PlayerMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	Ready     bool      `json:"ready"`
	Connected bool      `json:"connected"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Session is one game room: the engine instance plus the player metadata and
// timestamps the transports need. The mutex serializes every operation on the
// session; the engine itself is lock-free.
type Session struct {
	ID             string
	Game           *engine.Game
	Rules          engine.Rules
	CreatedAt      time.Time
	LastActivityAt time.Time
	Players        map[string]*PlayerMeta

	mu sync.Mutex
}

// Lock acquires the session mutex. Every read or write of Game, Players or
// LastActivityAt must happen under it.
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session mutex
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Touch updates the activity timestamp. Callers hold the lock.
func (s *Session) Touch() {
	s.LastActivityAt = time.Now()
}

// Meta returns the metadata for playerID, or nil. Callers hold the lock.
func (s *Session) Meta(playerID string) *PlayerMeta {
	return s.Players[playerID]
}

// OpponentMeta returns the metadata of playerID's opponent, or nil. Callers
// hold the lock.
func (s *Session) OpponentMeta(playerID string) *PlayerMeta {
	opponentID := s.Game.OpponentID(playerID)
	if opponentID == "" {
		return nil
	}
	return s.Players[opponentID]
}

// PlayersCopy returns a copy of the player metadata map with copied entries.
// Callers hold the lock.
func (s *Session) PlayersCopy() map[string]*PlayerMeta {
	out := make(map[string]*PlayerMeta, len(s.Players))
	for id, meta := range s.Players {
		copied := *meta
		out[id] = &copied
	}
	return out
}

// ConnectedCount returns how many players are marked connected. Callers hold
// the lock.
func (s *Session) ConnectedCount() int {
	count := 0
	for _, meta := range s.Players {
		if meta.Connected {
			count++
		}
	}
	return count
}
