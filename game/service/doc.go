// Package service provides the business logic layer for the battleship server.
//
// The service package implements:
//   - Multi-game session management with matchmaking
//   - Fleet placement and readiness tracking
//   - Attack processing and turn orchestration
//   - Reconnect tokens and connection state
//   - Game lifecycle from lobby to final result
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, player metadata, and business
// logic orchestration. Each session maintains its own game engine instance
// with independent state, guarded by a per-session mutex.
//
// Usage:
//
//	sessionMgr := session.NewManager(persistence)
//	gameService := service.NewGameService(sessionMgr)
//
//	// Join matchmaking (empty gameID joins the oldest open game)
//	join, err := gameService.JoinGame(ctx, "", "alice", "Alice")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Place the fleet and fire
//	_, err = gameService.PlaceFleet(ctx, join.GameID, "alice", fleet)
//	report, err := gameService.Attack(ctx, join.GameID, "alice", engine.Coordinate{X: 3, Y: 4})
//
// Session Management:
//
// Games are identified by unique 4-character IDs and maintain independent
// state. Multiple games run concurrently. Each player receives a reconnect
// token at join time; presenting it later re-attaches the player to their
// seat after a dropped connection. Sessions track creation time and last
// activity time so stale games can be expired.
package service
