// Package api provides the HTTP REST surface of the battleship server.
//
// The api package implements:
//   - RESTful endpoints for game lifecycle, placement, and play
//   - Token-gated state access for reconnecting clients
//   - Server statistics and health reporting
//   - WebSocket upgrade handoff to the hub
//
// Endpoints:
//
// Game Lifecycle:
//   - POST /api/games - Create a game (optional custom rules)
//   - GET /api/games - List all games
//   - POST /api/games/join - Join any open game (matchmaking)
//   - POST /api/games/{id}/join - Join a specific game
//   - GET /api/games/{id} - Get one game's summary
//   - DELETE /api/games/{id} - Delete a game
//
// Ship Placement:
//   - POST /api/games/{id}/ships - Place a single ship
//   - PUT /api/games/{id}/ships - Place the full fleet at once
//   - DELETE /api/games/{id}/ships/{shipId}?playerId= - Remove a placed ship
//   - POST /api/games/{id}/ready - Lock in the fleet
//
// Play:
//   - POST /api/games/{id}/attack - Fire at a coordinate
//   - POST /api/games/{id}/surrender - Concede the game
//
// State:
//   - GET /api/games/{id}/state?playerId=&token= - Player view (token required)
//   - GET /api/games/{id}/result - Final result of a finished game
//   - GET /api/stats - Registry-wide statistics
//   - GET /api/health - Liveness probe
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Request bodies use snake_case keys
// matching the service types:
//
//	{
//	  "player_id": "p1",
//	  "player_name": "Alice",
//	  "ship": {"type": "CRUISER", "start": {"x": 0, "y": 2}, "orientation": "HORIZONTAL"},
//	  "coordinate": {"x": 3, "y": 4}
//	}
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// Unknown games map to 404, phase violations and duplicate joins to 409,
// out-of-turn play to 403, bad tokens to 401, and malformed input to 400.
//
// Mutating endpoints also push refreshed views to any WebSocket clients of
// the same game, so mixed REST/WebSocket players stay in sync.
package api
