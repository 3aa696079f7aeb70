// Package mcp provides a Model Context Protocol interface to the battleship server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for every game operation
//   - Text rendering of boards and battle reports
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_game: Create a game, optionally with custom rules
//   - join_game: Join a specific game or be matched into a waiting one
//   - list_games: List games with phase and player counts
//   - place_ship / place_fleet / remove_ship: Fleet setup
//   - ready: Lock in the fleet
//   - attack: Fire at a coordinate
//   - surrender: Concede
//   - game_state: Private player view (token gated)
//   - game_result: Final result of a finished game
//   - game_instructions: Rules and strategy notes
//
// Architecture:
//
// The client is a thin proxy: every tool call becomes a REST request to the
// game server, so MCP agents, websocket players and plain REST clients all
// play in the same games. The REST error body's "error" field is surfaced
// verbatim as the tool error text.
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: POST endpoint handling one JSON-RPC message per request
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode: feed request bodies to HandleMessage
//	response := client.GetMCPServer().HandleMessage(ctx, body)
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Play full games against humans or other agents
//   - Run both sides of a match for strategy testing
//   - Read rendered boards instead of raw JSON grids
//   - Keep per-player tokens so opposing agents cannot peek
package mcp
