package session

import (
	"time"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
	"github.com/LudwigRoderich/BatallaNaval/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the JSON structure for persisted sessions: session
// metadata, player metadata, and a full engine snapshot
type PersistedSessionData struct {
	ID             string                         `json:"id"`
	CreatedAt      time.Time                      `json:"created_at"`
	LastActivityAt time.Time                      `json:"last_activity_at"`
	Players        map[string]*service.PlayerMeta `json:"players"`
	Game           engine.GameSnapshot            `json:"game"`
}
