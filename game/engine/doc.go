// Package engine provides the core battleship game logic.
//
// The engine package implements the whole rule set with no transport,
// logging or storage concerns:
//   - Ship placement validation (bounds, overlap, straight contiguous runs,
//     one ship per type)
//   - Attack resolution with typed outcomes (hit, miss, sunk, repeat,
//     out of bounds)
//   - The turn state machine with the extra-turn-on-hit rule
//   - Win detection and result computation
//   - Lossless snapshots for persistence
//
// Core Types:
//
// Game drives two Players through the phases WAITING_FOR_PLAYERS,
// PLACING_SHIPS, IN_PROGRESS and FINISHED. Each Player owns a Board with
// their real ships plus a tracking Board recording the outcomes of their own
// attacks. Rules parameterize the board size and fleet composition;
// DefaultRules gives the classic 10x10 game with one BATTLESHIP, CRUISER,
// DESTROYER and SUBMARINE per player.
//
// Usage:
//
//	game, err := engine.NewGame(engine.DefaultRules())
//	if err != nil {
//		log.Fatal(err)
//	}
//	game.AddPlayer("alice")
//	game.AddPlayer("bob")
//	game.Start()
//
//	ship, _ := engine.NewShipAt("alice_1", engine.Battleship,
//		engine.Horizontal, engine.Coordinate{X: 0, Y: 0})
//	game.PlaceShip("alice", ship)
//	// ... place the remaining ships for both players ...
//	game.FinishShipPlacement()
//
//	result, err := game.Attack("alice", engine.Coordinate{X: 5, Y: 5})
//
// Game Rules:
//
// Players place one ship of each fleet type, then attack in turns. A hit or
// a sunk ship grants another shot; a miss or a repeated coordinate passes
// the turn. Every attack call counts as a move, including repeats and
// out-of-bounds shots. The game finishes the moment a player's last ship
// cell is hit, and the attacker wins.
//
// Concurrency:
//
// A Game assumes single-threaded, in-order invocation. Callers that share a
// Game across goroutines must serialize all mutating calls behind one lock
// per instance.
package engine
