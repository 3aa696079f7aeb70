package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
	"github.com/LudwigRoderich/BatallaNaval/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Session ids become file names in the persistence layer, so only safe
// characters are accepted for explicitly chosen ids.
var validSessionID = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Manager handles game session lifecycle: the id-keyed registry, the
// player-to-session index used for matchmaking guards, and the optional
// persistence layer behind both.
type Manager struct {
	sessions    map[string]*service.Session
	players     map[string]string
	persistence SessionPersistence
	mu          sync.RWMutex
}

var _ service.SessionManager = (*Manager)(nil)

// NewManager creates a new session manager without persistence
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		players:  make(map[string]string),
	}
}

// NewManagerWithPersistence creates a new session manager backed by storage
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		players:     make(map[string]string),
		persistence: persistence,
	}
}

// Create creates a new session with the given ID and rules. An empty ID gets
// a generated one. IDs are case-insensitive.
func (m *Manager) Create(id string, rules engine.Rules) (*service.Session, error) {
	if id != "" && !validSessionID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	game, err := engine.NewGame(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	m.mu.Lock()
	if id == "" {
		id = m.generateSessionID()
		for i := 0; i < 4 && m.sessionExists(id); i++ {
			id = m.generateSessionID()
		}
	}
	if m.sessionExists(id) {
		m.mu.Unlock()
		return nil, ErrSessionAlreadyExists
	}

	session := &service.Session{
		ID:             id,
		Game:           game,
		Rules:          rules,
		CreatedAt:      time.Now(),
		LastActivityAt: time.Now(),
		Players:        make(map[string]*service.PlayerMeta),
	}
	m.sessions[strings.ToLower(id)] = session
	m.mu.Unlock()

	// Auto-save if persistence is enabled
	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			log.Warn().Err(err).Str("session_id", id).Msg("failed to persist new session")
		}
	}

	return session, nil
}

// Get retrieves a session by ID (case-insensitive), falling back to the
// persistence layer for sessions not yet in memory
func (m *Manager) Get(id string) (*service.Session, error) {
	key := strings.ToLower(id)

	m.mu.RLock()
	session, exists := m.sessions[key]
	m.mu.RUnlock()
	if exists {
		return session, nil
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		loaded, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted session: %w", err)
		}

		m.mu.Lock()
		// Another caller may have loaded it while we read the file
		if existing, ok := m.sessions[key]; ok {
			m.mu.Unlock()
			return existing, nil
		}
		m.sessions[strings.ToLower(loaded.ID)] = loaded
		m.bindSessionPlayers(loaded)
		m.mu.Unlock()

		return loaded, nil
	}

	return nil, ErrSessionNotFound
}

// FindOpen returns the oldest session still waiting for a second player
func (m *Manager) FindOpen() (*service.Session, bool) {
	m.mu.RLock()
	candidates := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		candidates = append(candidates, session)
	}
	m.mu.RUnlock()

	var open *service.Session
	var openCreated time.Time
	for _, session := range candidates {
		session.Lock()
		waiting := session.Game.Phase() == engine.PhaseWaitingForPlayers &&
			session.Game.PlayerCount() == 1
		session.Unlock()
		if !waiting {
			continue
		}
		if open == nil || session.CreatedAt.Before(openCreated) {
			open = session
			openCreated = session.CreatedAt
		}
	}
	return open, open != nil
}

// ForPlayer returns the session the player is currently bound to
func (m *Manager) ForPlayer(playerID string) (*service.Session, error) {
	m.mu.RLock()
	id, exists := m.players[playerID]
	m.mu.RUnlock()
	if !exists {
		return nil, ErrSessionNotFound
	}
	return m.Get(id)
}

// BindPlayer records which session a player belongs to
func (m *Manager) BindPlayer(playerID, sessionID string) {
	m.mu.Lock()
	m.players[playerID] = strings.ToLower(sessionID)
	m.mu.Unlock()
}

// ReleasePlayers drops every player binding pointing at the session, freeing
// those players to join new games
func (m *Manager) ReleasePlayers(sessionID string) {
	m.mu.Lock()
	m.releasePlayersLocked(strings.ToLower(sessionID))
	m.mu.Unlock()
}

func (m *Manager) releasePlayersLocked(key string) {
	for playerID, sessionID := range m.players {
		if sessionID == key {
			delete(m.players, playerID)
		}
	}
}

// bindSessionPlayers indexes every player of a freshly loaded session.
// Callers hold m.mu.
func (m *Manager) bindSessionPlayers(session *service.Session) {
	for playerID := range session.Players {
		m.players[playerID] = strings.ToLower(session.ID)
	}
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session from memory and persistence, releasing its
// players
func (m *Manager) Delete(id string) error {
	key := strings.ToLower(id)

	m.mu.Lock()
	_, inMemory := m.sessions[key]
	if inMemory {
		delete(m.sessions, key)
		m.releasePlayersLocked(key)
	}
	m.mu.Unlock()

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrSessionNotFound
	}

	return nil
}

// Touch updates the last-activity time for a session
func (m *Manager) Touch(id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	session.Lock()
	session.Touch()
	session.Unlock()
	return nil
}

// Save saves a specific session to persistence
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return ErrSessionNotFound
	}

	return m.persistence.Save(session)
}

// CleanupExpired removes sessions with no activity in the given duration and
// returns how many were removed. An expired but unfinished game where exactly
// one player is still connected is forfeited in that player's favor and kept
// for one more period, so they can collect the result.
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.RLock()
	candidates := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		candidates = append(candidates, session)
	}
	m.mu.RUnlock()

	removed := 0
	for _, session := range candidates {
		session.Lock()
		if !session.LastActivityAt.Before(cutoff) {
			session.Unlock()
			continue
		}

		if !session.Game.IsFinished() {
			if loser := abandonedPlayer(session); loser != "" {
				if err := session.Game.Forfeit(loser); err == nil {
					session.Touch()
					session.Unlock()
					if err := m.Save(session.ID); err != nil {
						log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to persist forfeited session")
					}
					log.Info().Str("session_id", session.ID).Str("loser", loser).Msg("abandoned game forfeited")
					continue
				}
			}
		}
		session.Unlock()

		if err := m.Delete(session.ID); err != nil {
			log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to delete expired session")
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("expired sessions cleaned up")
	}

	return removed
}

// abandonedPlayer picks the player who walked away: the disconnected side,
// when exactly one side is still connected. Callers hold the session lock.
func abandonedPlayer(session *service.Session) string {
	if len(session.Players) != engine.MaxPlayers {
		return ""
	}
	var disconnected []string
	for id, meta := range session.Players {
		if !meta.Connected {
			disconnected = append(disconnected, id)
		}
	}
	if len(disconnected) == 1 {
		return disconnected[0]
	}
	return ""
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a random 4-character session ID
func (m *Manager) generateSessionID() string {
	// Generate 2 random bytes (4 hex characters)
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// sessionExists checks if a session exists. Callers hold m.mu.
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}

// LoadPersisted loads all persisted sessions into memory, skipping finished
// games. Players of loaded sessions start disconnected until they reconnect.
func (m *Manager) LoadPersisted() error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	sessionIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	loaded := 0
	for _, id := range sessionIDs {
		m.mu.RLock()
		_, exists := m.sessions[strings.ToLower(id)]
		m.mu.RUnlock()
		if exists {
			continue
		}

		session, err := m.persistence.Load(id)
		if err != nil {
			log.Warn().Err(err).Str("session_id", id).Msg("failed to load persisted session")
			continue
		}

		// Finished games are history, not live sessions
		if session.Game.IsFinished() {
			continue
		}

		for _, meta := range session.Players {
			meta.Connected = false
		}

		m.mu.Lock()
		m.sessions[strings.ToLower(session.ID)] = session
		m.bindSessionPlayers(session)
		m.mu.Unlock()
		loaded++
	}

	if loaded > 0 {
		log.Info().Int("count", loaded).Msg("loaded persisted sessions")
	}

	return nil
}

// SaveAll saves all in-memory sessions to persistence
func (m *Manager) SaveAll() error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	sessions := m.List()

	errorCount := 0
	for _, session := range sessions {
		if err := m.persistence.Save(session); err != nil {
			log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to save session")
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d sessions", errorCount)
	}

	return nil
}
