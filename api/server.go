package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
	"github.com/LudwigRoderich/BatallaNaval/game/service"
	"github.com/LudwigRoderich/BatallaNaval/game/session"
	"github.com/LudwigRoderich/BatallaNaval/transport/websocket"
	"github.com/LudwigRoderich/BatallaNaval/validate"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)
	api.Use(loggingMiddleware)

	// Game lifecycle
	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	// Matchmaking join (must be before the {id} pattern)
	api.HandleFunc("/games/join", s.handleJoinGame).Methods("POST")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleDeleteGame).Methods("DELETE")
	api.HandleFunc("/games/{id}/join", s.handleJoinGame).Methods("POST")

	// Ship placement
	api.HandleFunc("/games/{id}/ships", s.handlePlaceShip).Methods("POST")
	api.HandleFunc("/games/{id}/ships", s.handlePlaceFleet).Methods("PUT")
	api.HandleFunc("/games/{id}/ships/{shipId}", s.handleRemoveShip).Methods("DELETE")
	api.HandleFunc("/games/{id}/ready", s.handleReady).Methods("POST")

	// Play
	api.HandleFunc("/games/{id}/attack", s.handleAttack).Methods("POST")
	api.HandleFunc("/games/{id}/surrender", s.handleSurrender).Methods("POST")

	// State
	api.HandleFunc("/games/{id}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/games/{id}/result", s.handleGetResult).Methods("GET")

	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket upgrade stays off the middleware chain: the logging wrapper
	// hides the http.Hijacker the upgrader needs.
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Middleware

// corsMiddleware allows cross-origin requests. Development posture; tighten
// before exposing the server publicly.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, httpStatus(err), err.Error())
}

// httpStatus maps service and engine errors onto HTTP status codes. Overlap
// is checked before the placement sentinel it wraps.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, service.ErrPlayerNotInGame):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyInGame),
		errors.Is(err, service.ErrFleetIncomplete),
		errors.Is(err, service.ErrGameNotFinished),
		errors.Is(err, session.ErrSessionAlreadyExists),
		errors.Is(err, engine.ErrGameState):
		return http.StatusConflict
	case errors.Is(err, engine.ErrPlayer):
		return http.StatusForbidden
	case errors.Is(err, session.ErrInvalidSessionID),
		errors.Is(err, engine.ErrShipOverlap),
		errors.Is(err, engine.ErrShipPlacement),
		errors.Is(err, engine.ErrInvalidShip),
		errors.Is(err, engine.ErrInvalidCoordinate),
		errors.Is(err, engine.ErrInvalidAttack):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// notifyGame pushes fresh views to any WebSocket clients of the game.
func (s *Server) notifyGame(gameID string) {
	if s.hub != nil {
		s.hub.BroadcastGameState(gameID)
	}
}

// Game Lifecycle Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rules *engine.Rules `json:"rules,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	info, err := s.service.CreateGame(r.Context(), req.Rules)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	games, err := s.service.ListGames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, game := range games {
		if strings.EqualFold(game.GameID, gameID) {
			respondJSON(w, http.StatusOK, game)
			return
		}
	}
	respondError(w, http.StatusNotFound, fmt.Sprintf("game %q not found", gameID))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	if err := s.service.DeleteGame(r.Context(), gameID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Game %s deleted", gameID),
	})
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		PlayerID   string `json:"player_id"`
		PlayerName string `json:"player_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.PlayerID(req.PlayerID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.PlayerName(req.PlayerName); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.JoinGame(r.Context(), gameID, req.PlayerID, req.PlayerName)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.notifyGame(result.GameID)
	respondJSON(w, http.StatusOK, result)
}

// Ship Placement Handlers

func (s *Server) handlePlaceShip(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		PlayerID string           `json:"player_id"`
		Ship     service.ShipSpec `json:"ship"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rules, err := s.service.Rules(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if err := validate.ShipSpec(&req.Ship, rules.BoardSize); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.PlaceShip(r.Context(), gameID, req.PlayerID, req.Ship)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.notifyGame(gameID)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePlaceFleet(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		PlayerID string             `json:"player_id"`
		Ships    []service.ShipSpec `json:"ships"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rules, err := s.service.Rules(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if err := validate.Fleet(req.Ships, *rules); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.PlaceFleet(r.Context(), gameID, req.PlayerID, req.Ships)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.notifyGame(gameID)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRemoveShip(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["id"]
	shipID := vars["shipId"]

	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		respondError(w, http.StatusBadRequest, "playerId query parameter is required")
		return
	}

	result, err := s.service.RemoveShip(r.Context(), gameID, playerID, shipID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.notifyGame(gameID)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Ready(r.Context(), gameID, req.PlayerID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.notifyGame(gameID)
	respondJSON(w, http.StatusOK, result)
}

// Play Handlers

func (s *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		PlayerID   string             `json:"player_id"`
		Coordinate *engine.Coordinate `json:"coordinate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Coordinate == nil {
		respondError(w, http.StatusBadRequest, "coordinate is required")
		return
	}

	report, err := s.service.Attack(r.Context(), gameID, req.PlayerID, *req.Coordinate)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	log.Info().
		Str("game_id", gameID).
		Str("player_id", req.PlayerID).
		Str("coordinate", report.Result.AttackedCoordinate.String()).
		Str("outcome", string(report.Result.Outcome)).
		Msg("attack via rest")

	s.notifyGame(gameID)
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleSurrender(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.Surrender(r.Context(), gameID, req.PlayerID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.notifyGame(gameID)
	respondJSON(w, http.StatusOK, info)
}

// State Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	query := r.URL.Query()
	playerID := query.Get("playerId")
	token := query.Get("token")
	if playerID == "" || token == "" {
		respondError(w, http.StatusBadRequest, "playerId and token query parameters are required")
		return
	}

	// The view reveals the player's own fleet, so it is gated on the
	// reconnect token.
	if err := s.service.VerifyToken(r.Context(), gameID, playerID, token); err != nil {
		s.respondServiceError(w, err)
		return
	}

	view, err := s.service.GameState(r.Context(), gameID, playerID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	result, err := s.service.GameResult(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket transport disabled", http.StatusServiceUnavailable)
		return
	}
	s.hub.ServeWS(w, r)
}
