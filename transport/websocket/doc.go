// Package websocket provides the real-time transport for battleship games.
//
// The websocket package implements:
//   - Bidirectional JSON messaging over gorilla/websocket
//   - Game rooms with per-player fanout
//   - The full join/place/attack/surrender message protocol
//   - Reconnection with opponent notifications
//   - Connection lifecycle management with ping/pong keepalive
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections grouped into game rooms. Each connection is handled
// by a read goroutine, which dispatches client messages to the game service,
// and a write goroutine, which drains a buffered send channel.
//
// Message Protocol:
//
// Messages are JSON envelopes with a type field. Clients send join_game,
// reconnect, place_ships, attack, surrender and ping; the server answers
// with game_state, attack_result, opponent_move, game_over, notification,
// error and pong. Every server message carries a protocol status code and a
// unix-millisecond timestamp. See protocol.go for the full code table.
//
// Room Membership:
//
// A freshly upgraded connection belongs to no room. It enters one when its
// join_game or reconnect message succeeds, and from then on receives every
// fanout for that game: opponent moves, turn updates, reconnection notices
// and the game-over report.
//
// Usage:
//
//	hub := websocket.NewHub(gameService)
//	go hub.Run()
//
//	http.HandleFunc("/ws", hub.ServeWS)
//
// Connection Lifecycle:
//
// 1. Client connects to /ws
// 2. Client sends join_game (or reconnect with its token)
// 3. Server replies with game_state and registers the client in the room
// 4. Client plays; the server fans results out to both players
// 5. Disconnection marks the player disconnected and notifies the opponent;
// the session survives for reconnection until it expires
//
// Concurrency:
//
// The hub registry is guarded by a read-write mutex, registration and
// unregistration run on the hub goroutine, and each client's messages are
// handled serially on its read goroutine. Fanout never blocks on a slow
// client; a full send buffer drops the message instead.
package websocket
