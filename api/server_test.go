package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
	"github.com/LudwigRoderich/BatallaNaval/game/service"
	"github.com/LudwigRoderich/BatallaNaval/game/session"
	"github.com/LudwigRoderich/BatallaNaval/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Game lifecycle
	CreateGameFunc  func(ctx context.Context, rules *engine.Rules) (*service.GameInfo, error)
	JoinGameFunc    func(ctx context.Context, gameID, playerID, playerName string) (*service.JoinResult, error)
	ReconnectFunc   func(ctx context.Context, gameID, playerID, token string) (*engine.PlayerView, error)
	VerifyTokenFunc func(ctx context.Context, gameID, playerID, token string) error
	DeleteGameFunc  func(ctx context.Context, gameID string) error

	// Ship placement
	PlaceFleetFunc func(ctx context.Context, gameID, playerID string, ships []service.ShipSpec) (*service.PlacementResult, error)
	PlaceShipFunc  func(ctx context.Context, gameID, playerID string, ship service.ShipSpec) (*service.PlacementResult, error)
	RemoveShipFunc func(ctx context.Context, gameID, playerID, shipID string) (*service.PlacementResult, error)
	ReadyFunc      func(ctx context.Context, gameID, playerID string) (*service.ReadyResult, error)

	// Play
	AttackFunc    func(ctx context.Context, gameID, playerID string, c engine.Coordinate) (*service.AttackReport, error)
	SurrenderFunc func(ctx context.Context, gameID, playerID string) (*service.GameOverInfo, error)

	// State
	GameStateFunc  func(ctx context.Context, gameID, playerID string) (*engine.PlayerView, error)
	GameResultFunc func(ctx context.Context, gameID string) (*engine.GameOverResult, error)
	RulesFunc      func(ctx context.Context, gameID string) (*engine.Rules, error)
	ListGamesFunc  func(ctx context.Context) ([]*service.GameStats, error)
	StatsFunc      func(ctx context.Context) (*service.ServiceStats, error)

	// Connection bookkeeping
	DisconnectFunc func(ctx context.Context, gameID, playerID string) error
}

// Game lifecycle
func (m *MockGameService) CreateGame(ctx context.Context, rules *engine.Rules) (*service.GameInfo, error) {
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(ctx, rules)
	}
	r := engine.DefaultRules()
	if rules != nil {
		r = *rules
	}
	return &service.GameInfo{
		GameID:    "abcd",
		Phase:     engine.PhaseWaitingForPlayers,
		Rules:     r,
		CreatedAt: time.Now(),
	}, nil
}

func (m *MockGameService) JoinGame(ctx context.Context, gameID, playerID, playerName string) (*service.JoinResult, error) {
	if m.JoinGameFunc != nil {
		return m.JoinGameFunc(ctx, gameID, playerID, playerName)
	}
	if gameID == "" {
		gameID = "abcd"
	}
	return &service.JoinResult{
		GameID:      gameID,
		PlayerID:    playerID,
		PlayerName:  playerName,
		Token:       "test-token",
		Phase:       engine.PhaseWaitingForPlayers,
		PlayerCount: 1,
	}, nil
}

func (m *MockGameService) Reconnect(ctx context.Context, gameID, playerID, token string) (*engine.PlayerView, error) {
	if m.ReconnectFunc != nil {
		return m.ReconnectFunc(ctx, gameID, playerID, token)
	}
	return &engine.PlayerView{PlayerID: playerID, Phase: engine.PhasePlacingShips}, nil
}

func (m *MockGameService) VerifyToken(ctx context.Context, gameID, playerID, token string) error {
	if m.VerifyTokenFunc != nil {
		return m.VerifyTokenFunc(ctx, gameID, playerID, token)
	}
	return nil
}

func (m *MockGameService) DeleteGame(ctx context.Context, gameID string) error {
	if m.DeleteGameFunc != nil {
		return m.DeleteGameFunc(ctx, gameID)
	}
	return nil
}

// Ship placement
func (m *MockGameService) PlaceFleet(ctx context.Context, gameID, playerID string, ships []service.ShipSpec) (*service.PlacementResult, error) {
	if m.PlaceFleetFunc != nil {
		return m.PlaceFleetFunc(ctx, gameID, playerID, ships)
	}
	return &service.PlacementResult{
		GameID:      gameID,
		PlayerID:    playerID,
		ShipsPlaced: len(ships),
		FleetSize:   len(engine.ShipTypes()),
		Ready:       len(ships) == len(engine.ShipTypes()),
		Phase:       engine.PhasePlacingShips,
	}, nil
}

func (m *MockGameService) PlaceShip(ctx context.Context, gameID, playerID string, ship service.ShipSpec) (*service.PlacementResult, error) {
	if m.PlaceShipFunc != nil {
		return m.PlaceShipFunc(ctx, gameID, playerID, ship)
	}
	return &service.PlacementResult{
		GameID:      gameID,
		PlayerID:    playerID,
		ShipsPlaced: 1,
		FleetSize:   len(engine.ShipTypes()),
		Phase:       engine.PhasePlacingShips,
	}, nil
}

func (m *MockGameService) RemoveShip(ctx context.Context, gameID, playerID, shipID string) (*service.PlacementResult, error) {
	if m.RemoveShipFunc != nil {
		return m.RemoveShipFunc(ctx, gameID, playerID, shipID)
	}
	return &service.PlacementResult{
		GameID:    gameID,
		PlayerID:  playerID,
		FleetSize: len(engine.ShipTypes()),
		Phase:     engine.PhasePlacingShips,
	}, nil
}

func (m *MockGameService) Ready(ctx context.Context, gameID, playerID string) (*service.ReadyResult, error) {
	if m.ReadyFunc != nil {
		return m.ReadyFunc(ctx, gameID, playerID)
	}
	return &service.ReadyResult{
		GameID:   gameID,
		PlayerID: playerID,
		Phase:    engine.PhasePlacingShips,
	}, nil
}

// Play
func (m *MockGameService) Attack(ctx context.Context, gameID, playerID string, c engine.Coordinate) (*service.AttackReport, error) {
	if m.AttackFunc != nil {
		return m.AttackFunc(ctx, gameID, playerID, c)
	}
	return &service.AttackReport{
		GameID:   gameID,
		PlayerID: playerID,
		Result: engine.AttackResult{
			Outcome:            engine.OutcomeMiss,
			DefenderID:         "opponent",
			AttackedCoordinate: c,
		},
		NextTurn: "opponent",
	}, nil
}

func (m *MockGameService) Surrender(ctx context.Context, gameID, playerID string) (*service.GameOverInfo, error) {
	if m.SurrenderFunc != nil {
		return m.SurrenderFunc(ctx, gameID, playerID)
	}
	return &service.GameOverInfo{
		GameID: gameID,
		Winner: "opponent",
		Loser:  playerID,
		Reason: service.ReasonSurrender,
	}, nil
}

// State
func (m *MockGameService) GameState(ctx context.Context, gameID, playerID string) (*engine.PlayerView, error) {
	if m.GameStateFunc != nil {
		return m.GameStateFunc(ctx, gameID, playerID)
	}
	return &engine.PlayerView{PlayerID: playerID, Phase: engine.PhaseInProgress}, nil
}

func (m *MockGameService) GameResult(ctx context.Context, gameID string) (*engine.GameOverResult, error) {
	if m.GameResultFunc != nil {
		return m.GameResultFunc(ctx, gameID)
	}
	return &engine.GameOverResult{WinnerID: "p1", LoserID: "p2", TotalMoves: 10, WinningMoves: 8}, nil
}

func (m *MockGameService) Rules(ctx context.Context, gameID string) (*engine.Rules, error) {
	if m.RulesFunc != nil {
		return m.RulesFunc(ctx, gameID)
	}
	rules := engine.DefaultRules()
	return &rules, nil
}

func (m *MockGameService) ListGames(ctx context.Context) ([]*service.GameStats, error) {
	if m.ListGamesFunc != nil {
		return m.ListGamesFunc(ctx)
	}
	return []*service.GameStats{}, nil
}

func (m *MockGameService) Stats(ctx context.Context) (*service.ServiceStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &service.ServiceStats{}, nil
}

// Connection bookkeeping
func (m *MockGameService) Disconnect(ctx context.Context, gameID, playerID string) error {
	if m.DisconnectFunc != nil {
		return m.DisconnectFunc(ctx, gameID, playerID)
	}
	return nil
}

// Helper to setup test server
func setupTestServer(mockService *MockGameService) *Server {
	hub := websocket.NewHub(mockService)
	go hub.Run()
	return NewServer(mockService, hub)
}

// Helper to make HTTP requests
func makeRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Helper to parse JSON response
func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.NewDecoder(w.Body).Decode(target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// validFleet returns a complete classic fleet laid out row by row
func validFleet() []service.ShipSpec {
	fleet := make([]service.ShipSpec, 0, len(engine.ShipTypes()))
	for i, shipType := range engine.ShipTypes() {
		fleet = append(fleet, service.ShipSpec{
			Type:        shipType,
			Start:       engine.Coordinate{X: 0, Y: i * 2},
			Orientation: engine.Horizontal,
		})
	}
	return fleet
}

// Game Lifecycle Tests

func TestCreateGame(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "Create with default rules",
			requestBody:    nil,
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.GameInfo
				parseResponse(t, w, &resp)
				if resp.GameID == "" {
					t.Error("Expected non-empty game ID")
				}
				if resp.Rules.BoardSize != engine.DefaultBoardSize {
					t.Errorf("Expected board size %d, got %d", engine.DefaultBoardSize, resp.Rules.BoardSize)
				}
			},
		},
		{
			name: "Create with custom rules",
			requestBody: map[string]interface{}{
				"rules": map[string]interface{}{
					"board_size": 6,
					"fleet":      []string{"DESTROYER", "SUBMARINE"},
				},
			},
			setupMock: func(m *MockGameService) {
				m.CreateGameFunc = func(ctx context.Context, rules *engine.Rules) (*service.GameInfo, error) {
					if rules == nil {
						return nil, fmt.Errorf("expected custom rules")
					}
					if rules.BoardSize != 6 {
						return nil, fmt.Errorf("expected board size 6, got %d", rules.BoardSize)
					}
					return &service.GameInfo{GameID: "tiny", Phase: engine.PhaseWaitingForPlayers, Rules: *rules, CreatedAt: time.Now()}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.GameInfo
				parseResponse(t, w, &resp)
				if resp.GameID != "tiny" {
					t.Errorf("Expected game ID tiny, got %s", resp.GameID)
				}
				if len(resp.Rules.Fleet) != 2 {
					t.Errorf("Expected fleet of 2, got %d", len(resp.Rules.Fleet))
				}
			},
		},
		{
			name:        "Service rejects rules",
			requestBody: map[string]interface{}{"rules": map[string]interface{}{"board_size": 0}},
			setupMock: func(m *MockGameService) {
				m.CreateGameFunc = func(ctx context.Context, rules *engine.Rules) (*service.GameInfo, error) {
					return nil, fmt.Errorf("rules: board size must be at least 1, got 0")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/games", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListGames(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "Empty registry",
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp struct {
					Count int                  `json:"count"`
					Games []*service.GameStats `json:"games"`
				}
				parseResponse(t, w, &resp)
				if resp.Count != 0 {
					t.Errorf("Expected count 0, got %d", resp.Count)
				}
			},
		},
		{
			name: "Two games",
			setupMock: func(m *MockGameService) {
				m.ListGamesFunc = func(ctx context.Context) ([]*service.GameStats, error) {
					return []*service.GameStats{
						{GameID: "aaaa", Phase: engine.PhaseInProgress, PlayerCount: 2},
						{GameID: "bbbb", Phase: engine.PhaseWaitingForPlayers, PlayerCount: 1},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp struct {
					Count int                  `json:"count"`
					Games []*service.GameStats `json:"games"`
				}
				parseResponse(t, w, &resp)
				if resp.Count != 2 {
					t.Errorf("Expected count 2, got %d", resp.Count)
				}
				if resp.Games[0].GameID != "aaaa" {
					t.Errorf("Expected first game aaaa, got %s", resp.Games[0].GameID)
				}
			},
		},
		{
			name: "Service error",
			setupMock: func(m *MockGameService) {
				m.ListGamesFunc = func(ctx context.Context) ([]*service.GameStats, error) {
					return nil, fmt.Errorf("registry unavailable")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/games", nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestGetGame(t *testing.T) {
	tests := []struct {
		name           string
		gameID         string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "Get existing game, case insensitive",
			gameID: "abcd",
			setupMock: func(m *MockGameService) {
				m.ListGamesFunc = func(ctx context.Context) ([]*service.GameStats, error) {
					return []*service.GameStats{
						{GameID: "ABCD", Phase: engine.PhaseInProgress, PlayerCount: 2, MoveCount: 7},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.GameStats
				parseResponse(t, w, &resp)
				if resp.GameID != "ABCD" {
					t.Errorf("Expected game ID ABCD, got %s", resp.GameID)
				}
				if resp.MoveCount != 7 {
					t.Errorf("Expected move count 7, got %d", resp.MoveCount)
				}
			},
		},
		{
			name:           "Game not found",
			gameID:         "zzzz",
			expectedStatus: http.StatusNotFound,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] == "" {
					t.Error("Expected error message")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/games/"+tt.gameID, nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestDeleteGame(t *testing.T) {
	tests := []struct {
		name           string
		gameID         string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "Delete existing game",
			gameID: "abcd",
			setupMock: func(m *MockGameService) {
				m.DeleteGameFunc = func(ctx context.Context, gameID string) error {
					if gameID != "abcd" {
						return session.ErrSessionNotFound
					}
					return nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["message"] != "Game abcd deleted" {
					t.Errorf("Unexpected message: %s", resp["message"])
				}
			},
		},
		{
			name:   "Delete unknown game",
			gameID: "zzzz",
			setupMock: func(m *MockGameService) {
				m.DeleteGameFunc = func(ctx context.Context, gameID string) error {
					return session.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("DELETE", "/api/games/"+tt.gameID, nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestJoinGame(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Matchmaking join assigns a game",
			path: "/api/games/join",
			requestBody: map[string]interface{}{
				"player_id":   "p1",
				"player_name": "Alice",
			},
			setupMock: func(m *MockGameService) {
				m.JoinGameFunc = func(ctx context.Context, gameID, playerID, playerName string) (*service.JoinResult, error) {
					if gameID != "" {
						return nil, fmt.Errorf("expected empty game ID for matchmaking, got %q", gameID)
					}
					return &service.JoinResult{
						GameID:      "assigned",
						PlayerID:    playerID,
						PlayerName:  playerName,
						Token:       "tok-1",
						Phase:       engine.PhaseWaitingForPlayers,
						PlayerCount: 1,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.JoinResult
				parseResponse(t, w, &resp)
				if resp.GameID != "assigned" {
					t.Errorf("Expected game ID assigned, got %s", resp.GameID)
				}
				if resp.Token == "" {
					t.Error("Expected reconnect token")
				}
			},
		},
		{
			name: "Direct join fills the game",
			path: "/api/games/abcd/join",
			requestBody: map[string]interface{}{
				"player_id":   "p2",
				"player_name": "Bob",
			},
			setupMock: func(m *MockGameService) {
				m.JoinGameFunc = func(ctx context.Context, gameID, playerID, playerName string) (*service.JoinResult, error) {
					return &service.JoinResult{
						GameID:       gameID,
						PlayerID:     playerID,
						PlayerName:   playerName,
						Token:        "tok-2",
						Phase:        engine.PhasePlacingShips,
						PlayerCount:  2,
						OpponentID:   "p1",
						OpponentName: "Alice",
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.JoinResult
				parseResponse(t, w, &resp)
				if resp.Phase != engine.PhasePlacingShips {
					t.Errorf("Expected phase %s, got %s", engine.PhasePlacingShips, resp.Phase)
				}
				if resp.OpponentName != "Alice" {
					t.Errorf("Expected opponent Alice, got %s", resp.OpponentName)
				}
			},
		},
		{
			name: "Invalid player name rejected before the service",
			path: "/api/games/join",
			requestBody: map[string]interface{}{
				"player_id":   "p1",
				"player_name": "X",
			},
			setupMock: func(m *MockGameService) {
				m.JoinGameFunc = func(ctx context.Context, gameID, playerID, playerName string) (*service.JoinResult, error) {
					return nil, fmt.Errorf("service should not be called")
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Missing player ID",
			path: "/api/games/join",
			requestBody: map[string]interface{}{
				"player_name": "Alice",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Player already in a game",
			path: "/api/games/abcd/join",
			requestBody: map[string]interface{}{
				"player_id":   "p1",
				"player_name": "Alice",
			},
			setupMock: func(m *MockGameService) {
				m.JoinGameFunc = func(ctx context.Context, gameID, playerID, playerName string) (*service.JoinResult, error) {
					return nil, fmt.Errorf("%w: %s", service.ErrAlreadyInGame, playerID)
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Game already full",
			path: "/api/games/abcd/join",
			requestBody: map[string]interface{}{
				"player_id":   "p3",
				"player_name": "Carol",
			},
			setupMock: func(m *MockGameService) {
				m.JoinGameFunc = func(ctx context.Context, gameID, playerID, playerName string) (*service.JoinResult, error) {
					return nil, fmt.Errorf("%w: game is full", engine.ErrGameState)
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Unknown game",
			path: "/api/games/zzzz/join",
			requestBody: map[string]interface{}{
				"player_id":   "p1",
				"player_name": "Alice",
			},
			setupMock: func(m *MockGameService) {
				m.JoinGameFunc = func(ctx context.Context, gameID, playerID, playerName string) (*service.JoinResult, error) {
					return nil, fmt.Errorf("%w: %q", session.ErrSessionNotFound, gameID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", tt.path, tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

// Ship Placement Tests

func TestPlaceShip(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Place one ship",
			requestBody: map[string]interface{}{
				"player_id": "p1",
				"ship": map[string]interface{}{
					"type":        "CRUISER",
					"start":       map[string]int{"x": 0, "y": 0},
					"orientation": "HORIZONTAL",
				},
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.PlacementResult
				parseResponse(t, w, &resp)
				if resp.ShipsPlaced != 1 {
					t.Errorf("Expected 1 ship placed, got %d", resp.ShipsPlaced)
				}
			},
		},
		{
			name: "Lowercase spec is normalized",
			requestBody: map[string]interface{}{
				"player_id": "p1",
				"ship": map[string]interface{}{
					"type":        "cruiser",
					"start":       map[string]int{"x": 0, "y": 0},
					"orientation": "vertical",
				},
			},
			setupMock: func(m *MockGameService) {
				m.PlaceShipFunc = func(ctx context.Context, gameID, playerID string, ship service.ShipSpec) (*service.PlacementResult, error) {
					if ship.Type != engine.Cruiser || ship.Orientation != engine.Vertical {
						return nil, fmt.Errorf("spec not normalized: %s %s", ship.Type, ship.Orientation)
					}
					return &service.PlacementResult{GameID: gameID, PlayerID: playerID, ShipsPlaced: 1, FleetSize: 4}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Unknown ship type rejected before the service",
			requestBody: map[string]interface{}{
				"player_id": "p1",
				"ship": map[string]interface{}{
					"type":        "CANOE",
					"start":       map[string]int{"x": 0, "y": 0},
					"orientation": "HORIZONTAL",
				},
			},
			setupMock: func(m *MockGameService) {
				m.PlaceShipFunc = func(ctx context.Context, gameID, playerID string, ship service.ShipSpec) (*service.PlacementResult, error) {
					return nil, fmt.Errorf("service should not be called")
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Overlapping ship",
			requestBody: map[string]interface{}{
				"player_id": "p1",
				"ship": map[string]interface{}{
					"type":        "DESTROYER",
					"start":       map[string]int{"x": 0, "y": 0},
					"orientation": "HORIZONTAL",
				},
			},
			setupMock: func(m *MockGameService) {
				m.PlaceShipFunc = func(ctx context.Context, gameID, playerID string, ship service.ShipSpec) (*service.PlacementResult, error) {
					return nil, fmt.Errorf("%w: cell (0,0) occupied", engine.ErrShipOverlap)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Placement after game start",
			requestBody: map[string]interface{}{
				"player_id": "p1",
				"ship": map[string]interface{}{
					"type":        "DESTROYER",
					"start":       map[string]int{"x": 0, "y": 0},
					"orientation": "HORIZONTAL",
				},
			},
			setupMock: func(m *MockGameService) {
				m.PlaceShipFunc = func(ctx context.Context, gameID, playerID string, ship service.ShipSpec) (*service.PlacementResult, error) {
					return nil, fmt.Errorf("%w: expected PLACING_SHIPS, current IN_PROGRESS", engine.ErrGameState)
				}
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/games/abcd/ships", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestPlaceFleet(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Place the full fleet",
			requestBody: map[string]interface{}{
				"player_id": "p1",
				"ships":     validFleet(),
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.PlacementResult
				parseResponse(t, w, &resp)
				if !resp.Ready {
					t.Error("Expected player to be ready after full fleet")
				}
				if resp.ShipsPlaced != resp.FleetSize {
					t.Errorf("Expected %d ships placed, got %d", resp.FleetSize, resp.ShipsPlaced)
				}
			},
		},
		{
			name: "Incomplete fleet rejected before the service",
			requestBody: map[string]interface{}{
				"player_id": "p1",
				"ships":     validFleet()[:2],
			},
			setupMock: func(m *MockGameService) {
				m.PlaceFleetFunc = func(ctx context.Context, gameID, playerID string, ships []service.ShipSpec) (*service.PlacementResult, error) {
					return nil, fmt.Errorf("service should not be called")
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Custom rules drive fleet validation",
			requestBody: map[string]interface{}{
				"player_id": "p1",
				"ships": []service.ShipSpec{
					{Type: engine.Destroyer, Start: engine.Coordinate{X: 0, Y: 0}, Orientation: engine.Horizontal},
					{Type: engine.Submarine, Start: engine.Coordinate{X: 0, Y: 2}, Orientation: engine.Horizontal},
				},
			},
			setupMock: func(m *MockGameService) {
				m.RulesFunc = func(ctx context.Context, gameID string) (*engine.Rules, error) {
					return &engine.Rules{BoardSize: 6, Fleet: []engine.ShipType{engine.Destroyer, engine.Submarine}}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Unknown game fails the rules lookup",
			requestBody: map[string]interface{}{
				"player_id": "p1",
				"ships":     validFleet(),
			},
			setupMock: func(m *MockGameService) {
				m.RulesFunc = func(ctx context.Context, gameID string) (*engine.Rules, error) {
					return nil, fmt.Errorf("%w: %q", session.ErrSessionNotFound, gameID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("PUT", "/api/games/abcd/ships", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestRemoveShip(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name: "Remove a placed ship",
			path: "/api/games/abcd/ships/CRUISER?playerId=p1",
			setupMock: func(m *MockGameService) {
				m.RemoveShipFunc = func(ctx context.Context, gameID, playerID, shipID string) (*service.PlacementResult, error) {
					if shipID != "CRUISER" || playerID != "p1" {
						return nil, fmt.Errorf("unexpected args: %s %s", shipID, playerID)
					}
					return &service.PlacementResult{GameID: gameID, PlayerID: playerID, ShipsPlaced: 3, FleetSize: 4}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing playerId query parameter",
			path:           "/api/games/abcd/ships/CRUISER",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Ship not placed",
			path: "/api/games/abcd/ships/CARRIER?playerId=p1",
			setupMock: func(m *MockGameService) {
				m.RemoveShipFunc = func(ctx context.Context, gameID, playerID, shipID string) (*service.PlacementResult, error) {
					return nil, fmt.Errorf("%w: CARRIER not placed", engine.ErrInvalidShip)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("DELETE", tt.path, nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "First player ready",
			requestBody: map[string]interface{}{"player_id": "p1"},
			setupMock: func(m *MockGameService) {
				m.ReadyFunc = func(ctx context.Context, gameID, playerID string) (*service.ReadyResult, error) {
					return &service.ReadyResult{GameID: gameID, PlayerID: playerID, BothReady: false, Phase: engine.PhasePlacingShips}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.ReadyResult
				parseResponse(t, w, &resp)
				if resp.BothReady {
					t.Error("Expected both_ready false for first player")
				}
			},
		},
		{
			name:        "Second player ready starts the game",
			requestBody: map[string]interface{}{"player_id": "p2"},
			setupMock: func(m *MockGameService) {
				m.ReadyFunc = func(ctx context.Context, gameID, playerID string) (*service.ReadyResult, error) {
					return &service.ReadyResult{GameID: gameID, PlayerID: playerID, BothReady: true, Phase: engine.PhaseInProgress, CurrentTurn: "p1"}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.ReadyResult
				parseResponse(t, w, &resp)
				if resp.Phase != engine.PhaseInProgress {
					t.Errorf("Expected phase %s, got %s", engine.PhaseInProgress, resp.Phase)
				}
				if resp.CurrentTurn != "p1" {
					t.Errorf("Expected first joiner on turn, got %s", resp.CurrentTurn)
				}
			},
		},
		{
			name:        "Ready with ships missing",
			requestBody: map[string]interface{}{"player_id": "p1"},
			setupMock: func(m *MockGameService) {
				m.ReadyFunc = func(ctx context.Context, gameID, playerID string) (*service.ReadyResult, error) {
					return nil, fmt.Errorf("%w: 2 of 4 placed", service.ErrFleetIncomplete)
				}
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/games/abcd/ready", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

// Play Tests

func TestAttack(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Hit",
			requestBody: map[string]interface{}{
				"player_id":  "p1",
				"coordinate": map[string]int{"x": 3, "y": 4},
			},
			setupMock: func(m *MockGameService) {
				m.AttackFunc = func(ctx context.Context, gameID, playerID string, c engine.Coordinate) (*service.AttackReport, error) {
					return &service.AttackReport{
						GameID:   gameID,
						PlayerID: playerID,
						Result: engine.AttackResult{
							Outcome:            engine.OutcomeHit,
							DefenderID:         "p2",
							AttackedCoordinate: c,
						},
						NextTurn: playerID,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.AttackReport
				parseResponse(t, w, &resp)
				if resp.Result.Outcome != engine.OutcomeHit {
					t.Errorf("Expected HIT, got %s", resp.Result.Outcome)
				}
				if resp.NextTurn != "p1" {
					t.Errorf("Expected attacker to keep the turn, got %s", resp.NextTurn)
				}
			},
		},
		{
			name: "Winning shot",
			requestBody: map[string]interface{}{
				"player_id":  "p1",
				"coordinate": map[string]int{"x": 0, "y": 0},
			},
			setupMock: func(m *MockGameService) {
				m.AttackFunc = func(ctx context.Context, gameID, playerID string, c engine.Coordinate) (*service.AttackReport, error) {
					return &service.AttackReport{
						GameID:   gameID,
						PlayerID: playerID,
						Result: engine.AttackResult{
							Outcome:            engine.OutcomeShipSunk,
							ShipSunk:           true,
							SunkShipType:       engine.Submarine,
							GameFinished:       true,
							DefenderID:         "p2",
							AttackedCoordinate: c,
						},
						Finished: true,
						Winner:   playerID,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.AttackReport
				parseResponse(t, w, &resp)
				if !resp.Finished {
					t.Error("Expected finished report")
				}
				if resp.Winner != "p1" {
					t.Errorf("Expected winner p1, got %s", resp.Winner)
				}
			},
		},
		{
			name: "Missing coordinate",
			requestBody: map[string]interface{}{
				"player_id": "p1",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Out of turn",
			requestBody: map[string]interface{}{
				"player_id":  "p2",
				"coordinate": map[string]int{"x": 1, "y": 1},
			},
			setupMock: func(m *MockGameService) {
				m.AttackFunc = func(ctx context.Context, gameID, playerID string, c engine.Coordinate) (*service.AttackReport, error) {
					return nil, fmt.Errorf("%w: not %s's turn", engine.ErrPlayer, playerID)
				}
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "Attack before game start",
			requestBody: map[string]interface{}{
				"player_id":  "p1",
				"coordinate": map[string]int{"x": 1, "y": 1},
			},
			setupMock: func(m *MockGameService) {
				m.AttackFunc = func(ctx context.Context, gameID, playerID string, c engine.Coordinate) (*service.AttackReport, error) {
					return nil, fmt.Errorf("%w: expected IN_PROGRESS, current PLACING_SHIPS", engine.ErrGameState)
				}
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/games/abcd/attack", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestSurrender(t *testing.T) {
	mockService := &MockGameService{}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	req := makeRequest("POST", "/api/games/abcd/surrender", map[string]interface{}{"player_id": "p1"})

	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp service.GameOverInfo
	parseResponse(t, w, &resp)
	if resp.Loser != "p1" {
		t.Errorf("Expected loser p1, got %s", resp.Loser)
	}
	if resp.Reason != service.ReasonSurrender {
		t.Errorf("Expected reason %s, got %s", service.ReasonSurrender, resp.Reason)
	}
}

// State Tests

func TestGetState(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "State with valid token",
			path: "/api/games/abcd/state?playerId=p1&token=tok-1",
			setupMock: func(m *MockGameService) {
				m.VerifyTokenFunc = func(ctx context.Context, gameID, playerID, token string) error {
					if token != "tok-1" {
						return service.ErrInvalidToken
					}
					return nil
				}
				m.GameStateFunc = func(ctx context.Context, gameID, playerID string) (*engine.PlayerView, error) {
					return &engine.PlayerView{
						PlayerID:     playerID,
						Phase:        engine.PhaseInProgress,
						YourTurn:     true,
						OwnShipCount: 4,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp engine.PlayerView
				parseResponse(t, w, &resp)
				if resp.PlayerID != "p1" {
					t.Errorf("Expected player p1, got %s", resp.PlayerID)
				}
				if !resp.YourTurn {
					t.Error("Expected your_turn true")
				}
			},
		},
		{
			name:           "Missing token",
			path:           "/api/games/abcd/state?playerId=p1",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Wrong token",
			path: "/api/games/abcd/state?playerId=p1&token=stolen",
			setupMock: func(m *MockGameService) {
				m.VerifyTokenFunc = func(ctx context.Context, gameID, playerID, token string) error {
					return service.ErrInvalidToken
				}
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Player not in game",
			path: "/api/games/abcd/state?playerId=p9&token=tok-9",
			setupMock: func(m *MockGameService) {
				m.VerifyTokenFunc = func(ctx context.Context, gameID, playerID, token string) error {
					return fmt.Errorf("%w: %s", service.ErrPlayerNotInGame, playerID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", tt.path, nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestGetResult(t *testing.T) {
	tests := []struct {
		name           string
		gameID         string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "Finished game",
			gameID: "abcd",
			setupMock: func(m *MockGameService) {
				m.GameResultFunc = func(ctx context.Context, gameID string) (*engine.GameOverResult, error) {
					return &engine.GameOverResult{WinnerID: "p1", LoserID: "p2", TotalMoves: 34, WinningMoves: 10}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp engine.GameOverResult
				parseResponse(t, w, &resp)
				if resp.WinnerID != "p1" {
					t.Errorf("Expected winner p1, got %s", resp.WinnerID)
				}
				if resp.WinningMoves != 10 {
					t.Errorf("Expected 10 winning moves, got %d", resp.WinningMoves)
				}
			},
		},
		{
			name:   "Game still running",
			gameID: "abcd",
			setupMock: func(m *MockGameService) {
				m.GameResultFunc = func(ctx context.Context, gameID string) (*engine.GameOverResult, error) {
					return nil, fmt.Errorf("%w: phase IN_PROGRESS", service.ErrGameNotFinished)
				}
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/games/"+tt.gameID+"/result", nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.gameID})

			server.handleGetResult(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestStats(t *testing.T) {
	mockService := &MockGameService{
		StatsFunc: func(ctx context.Context) (*service.ServiceStats, error) {
			return &service.ServiceStats{
				TotalGames:       5,
				ActiveGames:      2,
				FinishedGames:    1,
				ConnectedPlayers: 4,
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	req := makeRequest("GET", "/api/stats", nil)

	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp service.ServiceStats
	parseResponse(t, w, &resp)
	if resp.TotalGames != 5 {
		t.Errorf("Expected 5 total games, got %d", resp.TotalGames)
	}
	if resp.ConnectedPlayers != 4 {
		t.Errorf("Expected 4 connected players, got %d", resp.ConnectedPlayers)
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(&MockGameService{})

	w := httptest.NewRecorder()
	req := makeRequest("GET", "/api/health", nil)

	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %s", resp["status"])
	}
}

func TestCORSPreflight(t *testing.T) {
	server := setupTestServer(&MockGameService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/games", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	server.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", service.ErrInvalidToken, http.StatusUnauthorized},
		{"session not found", session.ErrSessionNotFound, http.StatusNotFound},
		{"player not in game", service.ErrPlayerNotInGame, http.StatusNotFound},
		{"already in game", service.ErrAlreadyInGame, http.StatusConflict},
		{"fleet incomplete", service.ErrFleetIncomplete, http.StatusConflict},
		{"game not finished", service.ErrGameNotFinished, http.StatusConflict},
		{"game state", engine.ErrGameState, http.StatusConflict},
		{"not your turn", fmt.Errorf("%w: not p2's turn", engine.ErrPlayer), http.StatusForbidden},
		{"overlap", fmt.Errorf("%w: cell occupied", engine.ErrShipOverlap), http.StatusBadRequest},
		{"placement", engine.ErrShipPlacement, http.StatusBadRequest},
		{"coordinate", engine.ErrInvalidCoordinate, http.StatusBadRequest},
		{"unknown", fmt.Errorf("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := httpStatus(tt.err); got != tt.want {
				t.Errorf("httpStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
