package session

import (
	"os"
	"testing"
	"time"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
)

func TestManagerWithPersistence(t *testing.T) {
	// Create temporary directory for test sessions
	tempDir, err := os.MkdirTemp("", "manager_persistence_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	persistence, err := NewFilePersistence(tempDir)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	manager := NewManagerWithPersistence(persistence)
	rules := engine.DefaultRules()

	t.Run("Create Session Auto-Saves", func(t *testing.T) {
		session, err := manager.Create("auto1", rules)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if !persistence.Exists(session.ID) {
			t.Error("Session should be auto-saved on creation")
		}

		loadedSession, err := persistence.Load(session.ID)
		if err != nil {
			t.Fatalf("Failed to load auto-saved session: %v", err)
		}

		if loadedSession.ID != session.ID {
			t.Errorf("Expected ID %s, got %s", session.ID, loadedSession.ID)
		}
	})

	t.Run("Get Session Loads from Persistence", func(t *testing.T) {
		// Create new manager (no in-memory sessions)
		manager2 := NewManagerWithPersistence(persistence)

		session, err := manager2.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session from persistence: %v", err)
		}

		if session.ID != "auto1" {
			t.Errorf("Expected ID auto1, got %s", session.ID)
		}

		// Verify it's now cached in memory
		session2, err := manager2.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session from memory: %v", err)
		}

		if session2 != session {
			t.Error("Session should be cached in memory after loading from persistence")
		}
	})

	t.Run("Save Method Persists Changes", func(t *testing.T) {
		session, err := manager.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}

		seatPlayers(t, session)
		session.Players["alice"].Token = "token-alice"

		if err := manager.Save("auto1"); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}

		// Create new manager and load session
		manager3 := NewManagerWithPersistence(persistence)
		loadedSession, err := manager3.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to load session after manual save: %v", err)
		}

		if loadedSession.Game.PlayerCount() != 2 {
			t.Errorf("Expected 2 players after reload, got %d", loadedSession.Game.PlayerCount())
		}
		if loadedSession.Game.Phase() != engine.PhasePlacingShips {
			t.Errorf("Expected phase %s, got %s", engine.PhasePlacingShips, loadedSession.Game.Phase())
		}
		if loadedSession.Players["alice"].Token != "token-alice" {
			t.Error("Reconnect token should survive a restart")
		}
	})

	t.Run("Delete Removes from Persistence", func(t *testing.T) {
		session, err := manager.Create("delete_test", rules)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if !persistence.Exists(session.ID) {
			t.Error("Session should exist in persistence")
		}

		if err := manager.Delete(session.ID); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}

		if persistence.Exists(session.ID) {
			t.Error("Session should be removed from persistence on delete")
		}

		if _, err := manager.Get(session.ID); err == nil {
			t.Error("Should not be able to get deleted session")
		}
	})

	t.Run("Load Persisted Sessions on Startup", func(t *testing.T) {
		sessions := []string{"startup1", "startup2", "startup3"}
		for _, id := range sessions {
			if _, err := manager.Create(id, rules); err != nil {
				t.Fatalf("Failed to create session %s: %v", id, err)
			}
		}

		// A finished game on disk stays on disk
		done, err := manager.Create("done", rules)
		if err != nil {
			t.Fatalf("Failed to create finished session: %v", err)
		}
		seatPlayers(t, done)
		if err := done.Game.Forfeit("bob"); err != nil {
			t.Fatalf("Failed to forfeit: %v", err)
		}
		if err := persistence.Save(done); err != nil {
			t.Fatalf("Failed to save finished session: %v", err)
		}

		// Create new manager (simulates server restart)
		manager4 := NewManagerWithPersistence(persistence)
		if err := manager4.LoadPersisted(); err != nil {
			t.Fatalf("Failed to load persisted sessions: %v", err)
		}

		for _, id := range sessions {
			session, err := manager4.Get(id)
			if err != nil {
				t.Errorf("Failed to get session %s after startup load: %v", id, err)
				continue
			}
			if session.ID != id {
				t.Errorf("Expected ID %s, got %s", id, session.ID)
			}
		}

		// auto1, startup1-3 load; the finished game does not
		if manager4.Count() != 4 {
			t.Errorf("Expected 4 live sessions after startup, got %d", manager4.Count())
		}
		for _, s := range manager4.List() {
			if s.ID == "done" {
				t.Error("Finished session should not be loaded on startup")
			}
		}

		// Loaded players start disconnected and stay bound to their game
		auto1, err := manager4.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get auto1: %v", err)
		}
		if auto1.Players["alice"].Connected {
			t.Error("Players should start disconnected after a restart")
		}
		bound, err := manager4.ForPlayer("alice")
		if err != nil {
			t.Fatalf("Failed to resolve alice after startup: %v", err)
		}
		if bound.ID != "auto1" {
			t.Errorf("Expected alice bound to auto1, got %s", bound.ID)
		}
	})

	t.Run("SaveAll Persists Everything", func(t *testing.T) {
		session, err := manager.Get("startup1")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if err := session.Game.AddPlayer("dave"); err != nil {
			t.Fatalf("Failed to add player: %v", err)
		}

		if err := manager.SaveAll(); err != nil {
			t.Fatalf("Failed to save all sessions: %v", err)
		}

		manager5 := NewManagerWithPersistence(persistence)
		loaded, err := manager5.Get("startup1")
		if err != nil {
			t.Fatalf("Failed to reload startup1: %v", err)
		}
		if loaded.Game.PlayerCount() != 1 {
			t.Errorf("Expected dave to be persisted, got %d players", loaded.Game.PlayerCount())
		}
	})

	t.Run("Cleanup Removes Files", func(t *testing.T) {
		stale, err := manager.Create("stale", rules)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		stale.LastActivityAt = time.Now().Add(-2 * time.Hour)

		removed := manager.CleanupExpired(1 * time.Hour)
		if removed != 1 {
			t.Errorf("Expected 1 removal, got %d", removed)
		}
		if persistence.Exists("stale") {
			t.Error("Cleanup should delete the persisted file too")
		}
	})
}
