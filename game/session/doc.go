// Package session provides session management for the battleship server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Matchmaking lookup for open games
//   - Player-to-session indexing
//   - Session cleanup, expiration, and forfeit of abandoned games
//   - JSON file persistence of full game state
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// SessionPersistence is the storage interface, with FilePersistence as the
// file-based implementation writing one JSON file per session.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, compared
// case-insensitively. The manager provides collision-resistant generation
// using cryptographic randomness; explicit IDs are restricted to filesystem
// safe characters because they become file names.
//
// Concurrency:
//
// The session manager is thread-safe and supports concurrent operations.
// The manager mutex guards only the registry maps; each session carries its
// own mutex for game state. Lock order is manager first, session second.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//
//	// Restore games from a previous run
//	if err := manager.LoadPersisted(); err != nil {
//		log.Fatal(err)
//	}
//
//	// Create a new session
//	sess, err := manager.Create("", engine.DefaultRules())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//
// Cleanup:
//
// Sessions expire after a period of inactivity. CleanupExpired removes them
// and their files; an unfinished game abandoned by one player while the other
// is still connected is first decided in the connected player's favor.
package session
