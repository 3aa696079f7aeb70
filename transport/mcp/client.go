package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
	"github.com/LudwigRoderich/BatallaNaval/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Batalla Naval",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Batalla Naval (Battleship) - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Sink every ship in your opponent's fleet before they sink yours. Each player
hides a fleet on a private grid, then players take turns calling shots.

AVAILABLE TOOLS:
- create_game: Create a new game (optionally with custom rules)
- join_game: Join a game as a player; omit game_id for matchmaking
- list_games: List all games on the server
- place_ship: Place a single ship on your board
- place_fleet: Place your whole fleet in one call
- remove_ship: Take back a placed ship during setup
- ready: Lock in your fleet
- attack: Fire at a coordinate on the opponent's board
- surrender: Concede the game
- game_state: Get your private view of a game (requires your token)
- game_result: Get the final result of a finished game
- game_instructions: Get comprehensive game instructions and strategy

NOTE: join_game returns a reconnect token. Save it - game_state requires it,
and it is the only way to prove you are the player you claim to be.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Game lifecycle
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new battleship game. Default rules: 10x10 board with a battleship, cruiser, destroyer and submarine.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"board_size": map[string]interface{}{
					"type":        "integer",
					"description": "Board size (optional, default 10)",
				},
				"fleet": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"BATTLESHIP", "CRUISER", "DESTROYER", "SUBMARINE"},
					},
					"description": "Fleet composition (optional, defaults to one of each)",
				},
			},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all games on the server with their phase and players",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Join a game as a player. Omit game_id to be matched into the oldest waiting game (or a fresh one). Returns a reconnect token - save it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game to join (optional; omit for matchmaking)",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player ID",
				},
				"player_name": map[string]interface{}{
					"type":        "string",
					"description": "Your display name (2-30 characters)",
				},
			},
			Required: []string{"player_id", "player_name"},
		},
	}, c.handleJoinGame)

	// Ship placement
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_ship",
		Description: "Place a single ship on your board during setup. The ship extends right (HORIZONTAL) or down (VERTICAL) from the start cell.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player ID",
				},
				"ship_type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"BATTLESHIP", "CRUISER", "DESTROYER", "SUBMARINE"},
					"description": "Which ship to place",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the ship's start cell (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the ship's start cell (0-based)",
				},
				"orientation": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"HORIZONTAL", "VERTICAL"},
					"description": "Axis the ship lies along",
				},
			},
			Required: []string{"game_id", "player_id", "ship_type", "x", "y", "orientation"},
		},
	}, c.handlePlaceShip)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_fleet",
		Description: "Place your whole fleet in one call. Ships must not overlap or leave the board.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player ID",
				},
				"ships": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"type": map[string]interface{}{
								"type": "string",
								"enum": []string{"BATTLESHIP", "CRUISER", "DESTROYER", "SUBMARINE"},
							},
							"x": map[string]interface{}{
								"type": "integer",
							},
							"y": map[string]interface{}{
								"type": "integer",
							},
							"orientation": map[string]interface{}{
								"type": "string",
								"enum": []string{"HORIZONTAL", "VERTICAL"},
							},
						},
						"required": []string{"type", "x", "y", "orientation"},
					},
					"description": "One entry per ship in the game's fleet",
				},
			},
			Required: []string{"game_id", "player_id", "ships"},
		},
	}, c.handlePlaceFleet)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_ship",
		Description: "Take back a placed ship during setup so it can be placed elsewhere",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player ID",
				},
				"ship_type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"BATTLESHIP", "CRUISER", "DESTROYER", "SUBMARINE"},
					"description": "Which ship to remove",
				},
			},
			Required: []string{"game_id", "player_id", "ship_type"},
		},
	}, c.handleRemoveShip)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "ready",
		Description: "Lock in your fleet. The game starts when both players are ready; the first player to have joined moves first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player ID",
				},
			},
			Required: []string{"game_id", "player_id"},
		},
	}, c.handleReady)

	// Play
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "attack",
		Description: "Fire at a coordinate on the opponent's board. You keep the turn after a HIT or SHIP_SUNK; a MISS passes the turn.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player ID",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column to fire at (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row to fire at (0-based)",
				},
			},
			Required: []string{"game_id", "player_id", "x", "y"},
		},
	}, c.handleAttack)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "surrender",
		Description: "Concede the game. Your opponent wins immediately.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player ID",
				},
			},
			Required: []string{"game_id", "player_id"},
		},
	}, c.handleSurrender)

	// State
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get your private view of a game: your board with ship positions, and the opponent's board as you have revealed it. Requires the token from join_game.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player ID",
				},
				"token": map[string]interface{}{
					"type":        "string",
					"description": "Reconnect token from join_game",
				},
			},
			Required: []string{"game_id", "player_id", "token"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_result",
		Description: "Get the final result of a finished game: winner, loser and move totals",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGameResult)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions, rules and strategy notes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	body := map[string]interface{}{}
	rules := map[string]interface{}{}
	if boardSize, ok := args["board_size"].(float64); ok {
		rules["board_size"] = int(boardSize)
	}
	if fleetRaw, ok := args["fleet"].([]interface{}); ok && len(fleetRaw) > 0 {
		fleet := make([]string, 0, len(fleetRaw))
		for _, f := range fleetRaw {
			if shipType, ok := f.(string); ok {
				fleet = append(fleet, strings.ToUpper(shipType))
			}
		}
		rules["fleet"] = fleet
	}
	if len(rules) > 0 {
		if _, ok := rules["board_size"]; !ok {
			rules["board_size"] = engine.DefaultBoardSize
		}
		if _, ok := rules["fleet"]; !ok {
			fleet := make([]string, 0, len(engine.ShipTypes()))
			for _, shipType := range engine.ShipTypes() {
				fleet = append(fleet, string(shipType))
			}
			rules["fleet"] = fleet
		}
		body["rules"] = rules
	}

	var info service.GameInfo
	err := c.apiCall("POST", "/api/games", body, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %s\nBoard: %dx%d\nFleet: %s\n\nShare the game ID with your opponent, then join with join_game.",
		info.GameID, info.Rules.BoardSize, info.Rules.BoardSize, formatFleetTypes(info.Rules.Fleet))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                 `json:"count"`
		Games []service.GameStats `json:"games"`
	}

	err := c.apiCall("GET", "/api/games", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Games (%d):\n\n", response.Count)
	for _, g := range response.Games {
		result += fmt.Sprintf("- %s [%s] players=%d moves=%d",
			g.GameID, g.Phase, g.PlayerCount, g.MoveCount)
		if g.Winner != "" {
			result += fmt.Sprintf(" winner=%s", g.Winner)
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	playerID, _ := args["player_id"].(string)
	playerName, _ := args["player_name"].(string)

	body := map[string]string{
		"player_id":   playerID,
		"player_name": playerName,
	}

	path := "/api/games/join"
	if gameID != "" {
		path = fmt.Sprintf("/api/games/%s/join", gameID)
	}

	var join service.JoinResult
	err := c.apiCall("POST", path, body, &join)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatJoinResult(&join)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePlaceShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	playerID, _ := args["player_id"].(string)
	shipType, _ := args["ship_type"].(string)
	orientation, _ := args["orientation"].(string)
	x := intArg(args, "x")
	y := intArg(args, "y")

	body := map[string]interface{}{
		"player_id": playerID,
		"ship": map[string]interface{}{
			"type":        strings.ToUpper(shipType),
			"start":       map[string]int{"x": x, "y": y},
			"orientation": strings.ToUpper(orientation),
		},
	}

	var placement service.PlacementResult
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/ships", gameID), body, &placement)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatPlacementResult(&placement)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePlaceFleet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	playerID, _ := args["player_id"].(string)
	shipsRaw, _ := args["ships"].([]interface{})

	ships := make([]map[string]interface{}, 0, len(shipsRaw))
	for _, s := range shipsRaw {
		spec, ok := s.(map[string]interface{})
		if !ok {
			continue
		}
		shipType, _ := spec["type"].(string)
		orientation, _ := spec["orientation"].(string)
		ships = append(ships, map[string]interface{}{
			"type":        strings.ToUpper(shipType),
			"start":       map[string]int{"x": intArg(spec, "x"), "y": intArg(spec, "y")},
			"orientation": strings.ToUpper(orientation),
		})
	}

	body := map[string]interface{}{
		"player_id": playerID,
		"ships":     ships,
	}

	var placement service.PlacementResult
	err := c.apiCall("PUT", fmt.Sprintf("/api/games/%s/ships", gameID), body, &placement)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatPlacementResult(&placement)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRemoveShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	playerID, _ := args["player_id"].(string)
	shipType, _ := args["ship_type"].(string)

	var placement service.PlacementResult
	path := fmt.Sprintf("/api/games/%s/ships/%s?playerId=%s", gameID, strings.ToUpper(shipType), playerID)
	err := c.apiCall("DELETE", path, nil, &placement)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatPlacementResult(&placement)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleReady(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	playerID, _ := args["player_id"].(string)

	body := map[string]string{"player_id": playerID}

	var ready service.ReadyResult
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/ready", gameID), body, &ready)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Fleet locked in for %s.\n", ready.PlayerID)
	if ready.BothReady {
		result += fmt.Sprintf("Both players ready - battle begins! %s moves first.", ready.CurrentTurn)
	} else {
		result += "Waiting for the opponent to finish placing ships."
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleAttack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	playerID, _ := args["player_id"].(string)
	x := intArg(args, "x")
	y := intArg(args, "y")

	body := map[string]interface{}{
		"player_id":  playerID,
		"coordinate": map[string]int{"x": x, "y": y},
	}

	var report service.AttackReport
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/attack", gameID), body, &report)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatAttackReport(&report)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSurrender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	playerID, _ := args["player_id"].(string)

	body := map[string]string{"player_id": playerID}

	var info service.GameOverInfo
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/surrender", gameID), body, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("You surrendered. %s wins the game.", info.Winner)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	playerID, _ := args["player_id"].(string)
	token, _ := args["token"].(string)

	var view engine.PlayerView
	path := fmt.Sprintf("/api/games/%s/state?playerId=%s&token=%s", gameID, playerID, token)
	err := c.apiCall("GET", path, nil, &view)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatPlayerView(&view)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var result engine.GameOverResult
	err := c.apiCall("GET", fmt.Sprintf("/api/games/%s/result", gameID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf(`Game result:
Winner: %s
Loser: %s
Total moves: %d
Winning hits: %d`,
		result.WinnerID, result.LoserID, result.TotalMoves, result.WinningMoves)
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🚢 Batalla Naval (Battleship) - Complete Instructions

GAME OBJECTIVE:
Sink every ship in your opponent's fleet before they sink yours.

GAME FLOW:
1. Join a game (join_game). The first two players to join become opponents.
2. Place your fleet (place_fleet or repeated place_ship calls).
3. Lock in with ready. When both fleets are locked, the game starts and the
   first player to have joined fires first.
4. Take turns attacking coordinates until one fleet is sunk.

THE FLEET (classic rules):
• BATTLESHIP - 4 cells
• CRUISER - 3 cells
• DESTROYER - 2 cells
• SUBMARINE - 1 cell

BOARD LEGEND (your board):
• . - empty water
• S - one of your ship cells
• X - one of your ship cells that has been hit
• o - a shot your opponent fired into empty water

TRACKING BOARD LEGEND (opponent's board as you know it):
• ? - unexplored cell
• X - your hit on an enemy ship
• o - your miss

TURN RULES (IMPORTANT FOR PLANNING):
• A HIT or SHIP_SUNK keeps the turn: you fire again immediately.
• A MISS passes the turn to the opponent.
• Re-attacking an already-attacked cell wastes a move AND passes the turn.
• Coordinates are 0-based: (0,0) is the top-left, x is the column, y the row.

🤖 AI AGENTS - STRATEGY NOTES:

🎯 HUNT MODE (no known hits):
- Fire on a checkerboard pattern: cells where (x+y) is even. Every ship of
  length 2+ must touch one, so this halves the search space.
- Track your tracking board between turns; never repeat a coordinate.

🔥 TARGET MODE (after a hit):
1. Probe the four orthogonal neighbors of the hit.
2. On a second hit, you know the axis - walk it in both directions.
3. When SHIP_SUNK comes back, return to hunt mode.
4. Remember which ship types are still afloat; a sunk DESTROYER means no
   more 2-cell targets to worry about.

⚠️ COMMON MISTAKES:
- ❌ Forgetting that a hit grants another shot - always keep firing on HIT.
- ❌ Re-attacking a known cell (ALREADY_ATTACKED forfeits the turn).
- ❌ Mixing up x and y - x is the column (left-right), y the row (top-down).
- ❌ Losing the reconnect token - game_state needs it.

PLACEMENT TIPS:
- Ships extend right from (x,y) when HORIZONTAL and down when VERTICAL.
- A ship of length L placed HORIZONTAL at (x,y) occupies (x..x+L-1, y).
- Ships may touch but never overlap.
- Spreading ships out makes post-hit probing less rewarding for the enemy.

SESSION MANAGEMENT:
- Games have short 4-character IDs; share the ID to play a friend.
- join_game without game_id matches you into the oldest waiting game.
- Each player gets a private reconnect token on join. game_state requires
  it, so a player can never read the opponent's hidden board.

Good hunting! 🌊💥`

	return mcp.NewToolResultText(instructions), nil
}

// intArg reads a JSON number argument as an int
func intArg(args map[string]interface{}, key string) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return 0
}

// Formatting helpers

func formatFleetTypes(fleet []engine.ShipType) string {
	names := make([]string, 0, len(fleet))
	for _, shipType := range fleet {
		names = append(names, string(shipType))
	}
	return strings.Join(names, ", ")
}

func formatJoinResult(join *service.JoinResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Joined game %s as %s (%s)\n", join.GameID, join.PlayerName, join.PlayerID))
	b.WriteString(fmt.Sprintf("Reconnect token: %s (SAVE THIS - game_state requires it)\n", join.Token))
	b.WriteString(fmt.Sprintf("Phase: %s\n", join.Phase))

	if join.OpponentID != "" {
		b.WriteString(fmt.Sprintf("Opponent: %s (%s)\n", join.OpponentName, join.OpponentID))
		b.WriteString("\nBoth players are in - place your fleet with place_fleet.")
	} else {
		b.WriteString("\nWaiting for an opponent to join.")
	}
	return b.String()
}

func formatPlacementResult(placement *service.PlacementResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Ships placed: %d/%d\n", placement.ShipsPlaced, placement.FleetSize))

	switch {
	case placement.Phase == engine.PhaseInProgress:
		b.WriteString(fmt.Sprintf("Battle begins! %s moves first.", placement.CurrentTurn))
	case placement.Ready:
		b.WriteString("Your fleet is complete. Waiting for your opponent.")
	default:
		b.WriteString("Keep placing ships until the fleet is complete.")
	}
	return b.String()
}

func formatAttackReport(report *service.AttackReport) string {
	var b strings.Builder
	res := report.Result

	switch res.Outcome {
	case engine.OutcomeHit:
		b.WriteString(fmt.Sprintf("💥 HIT at %s! Fire again.\n", res.AttackedCoordinate))
	case engine.OutcomeShipSunk:
		b.WriteString(fmt.Sprintf("💥 HIT at %s - enemy %s SUNK! Fire again.\n", res.AttackedCoordinate, res.SunkShipType))
	case engine.OutcomeMiss:
		b.WriteString(fmt.Sprintf("🌊 Miss at %s. Turn passes to the opponent.\n", res.AttackedCoordinate))
	case engine.OutcomeAlreadyAttacked:
		b.WriteString(fmt.Sprintf("⚠️ %s was already attacked - move wasted, turn passes.\n", res.AttackedCoordinate))
	case engine.OutcomeInvalidCoordinate:
		b.WriteString(fmt.Sprintf("⚠️ %s is off the board. Try again.\n", res.AttackedCoordinate))
	default:
		b.WriteString(fmt.Sprintf("Outcome: %s at %s\n", res.Outcome, res.AttackedCoordinate))
	}

	if report.Finished {
		b.WriteString(fmt.Sprintf("\n🎉 GAME OVER - %s wins!", report.Winner))
	} else if report.NextTurn != "" {
		b.WriteString(fmt.Sprintf("Next turn: %s", report.NextTurn))
	}
	return b.String()
}

func formatPlayerView(view *engine.PlayerView) string {
	var b strings.Builder

	turn := "opponent's turn"
	if view.YourTurn {
		turn = "YOUR TURN"
	}
	b.WriteString(fmt.Sprintf("Game phase: %s | %s | Moves: %d | Your ships: %d | Enemy ships sunk: %d\n",
		view.Phase, turn, view.MoveCount, view.OwnShipCount, view.OpponentShipsSunk))

	if view.OpponentID != "" {
		b.WriteString(fmt.Sprintf("Opponent: %s\n", view.OpponentID))
	}

	if len(view.OwnBoard) > 0 {
		b.WriteString("\nYour board (S=ship X=hit o=miss .=water):\n")
		b.WriteString(renderOwnBoard(view.OwnBoard))
	}

	if len(view.OpponentBoard) > 0 {
		b.WriteString("\nTracking board (?=unknown X=hit o=miss):\n")
		b.WriteString(renderTrackingBoard(view.OpponentBoard))
	}

	if view.Finished {
		if view.Winner == view.PlayerID {
			b.WriteString("\n🎉 VICTORY!")
		} else {
			b.WriteString(fmt.Sprintf("\n💀 DEFEAT - %s won", view.Winner))
		}
	}

	return b.String()
}

// renderOwnBoard draws the player's own grid with ships visible
func renderOwnBoard(board [][]engine.CellState) string {
	var b strings.Builder
	writeColumnHeader(&b, len(board))
	for y, row := range board {
		b.WriteString(fmt.Sprintf("%2d ", y))
		for _, cell := range row {
			switch cell {
			case engine.CellShip:
				b.WriteString("S ")
			case engine.CellHit:
				b.WriteString("X ")
			case engine.CellMiss:
				b.WriteString("o ")
			default:
				b.WriteString(". ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderTrackingBoard draws the opponent's grid as revealed by attacks
func renderTrackingBoard(board [][]engine.PublicCellState) string {
	var b strings.Builder
	writeColumnHeader(&b, len(board))
	for y, row := range board {
		b.WriteString(fmt.Sprintf("%2d ", y))
		for _, cell := range row {
			switch cell {
			case engine.PublicHit:
				b.WriteString("X ")
			case engine.PublicMiss:
				b.WriteString("o ")
			case engine.PublicEmpty:
				b.WriteString(". ")
			default:
				b.WriteString("? ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeColumnHeader(b *strings.Builder, size int) {
	b.WriteString("   ")
	for x := 0; x < size; x++ {
		b.WriteString(fmt.Sprintf("%d ", x%10))
	}
	b.WriteString("\n")
}
