package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
	"github.com/LudwigRoderich/BatallaNaval/game/service"
	"github.com/LudwigRoderich/BatallaNaval/game/session"
	"github.com/LudwigRoderich/BatallaNaval/validate"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. A full fleet submission is the
	// largest client message.
	defaultMaxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Add proper origin checking in production
		return true
	},
}

// Client is a middleman between a WebSocket connection and the hub. A client
// belongs to no game room until its join_game or reconnect message succeeds.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	gameID     string
	playerID   string
	playerName string
}

// Hub routes game events to connected clients. Rooms are keyed by game id;
// registration and unregistration go through the Run loop, message fanout
// takes the room lock directly.
type Hub struct {
	service service.GameService

	// Registered clients grouped by game id.
	games map[string]map[*Client]bool
	mu    sync.RWMutex

	register   chan *Client
	unregister chan *Client

	maxMessageSize int64
}

// NewHub creates a hub serving the given game service. Call Run in a
// goroutine before serving connections.
func NewHub(gameService service.GameService) *Hub {
	return &Hub{
		service:        gameService,
		games:          make(map[string]map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		maxMessageSize: defaultMaxMessageSize,
	}
}

// SetMaxMessageSize overrides the read limit for client messages. Call it
// before serving connections.
func (h *Hub) SetMaxMessageSize(n int64) {
	if n > 0 {
		h.maxMessageSize = n
	}
}

// Run processes client registration and unregistration
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection. The connection
// stays roomless until the client sends join_game or reconnect.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	go client.writePump()
	go client.readPump()
}

// roomKey normalizes a game id the way the session manager does, so fanout
// and registration agree on the room regardless of the case a client sent.
func roomKey(gameID string) string {
	return strings.ToLower(gameID)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.games[client.gameID] == nil {
		h.games[client.gameID] = make(map[*Client]bool)
	}
	h.games[client.gameID][client] = true
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if clients, ok := h.games[client.gameID]; ok && clients[client] {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.games, client.gameID)
		}
	}
	close(client.send)
	h.mu.Unlock()

	if client.playerID == "" {
		return
	}

	if err := h.service.Disconnect(context.Background(), client.gameID, client.playerID); err != nil {
		log.Debug().Err(err).Str("game_id", client.gameID).Str("player_id", client.playerID).Msg("disconnect bookkeeping failed")
	}

	note := newMessage(TypeNotification, StatusConnectionLost)
	note.GameID = client.gameID
	note.Message = fmt.Sprintf("%s disconnected, waiting for reconnection", client.displayName())
	h.sendToOpponent(client.gameID, client.playerID, note)

	log.Info().Str("game_id", client.gameID).Str("player_id", client.playerID).Msg("player disconnected")
}

// sendToPlayer delivers a message to every connection a player has in a game
// room. Slow clients drop the message instead of blocking the sender.
func (h *Hub) sendToPlayer(gameID, playerID string, msg *ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal server message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.games[roomKey(gameID)] {
		if client.playerID == playerID {
			client.trySend(data)
		}
	}
}

// sendToOpponent delivers a message to everyone in the room except playerID.
func (h *Hub) sendToOpponent(gameID, playerID string, msg *ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal server message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.games[roomKey(gameID)] {
		if client.playerID != playerID {
			client.trySend(data)
		}
	}
}

// roomPlayerIDs returns the distinct player ids connected to a game room.
func (h *Hub) roomPlayerIDs(gameID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for client := range h.games[roomKey(gameID)] {
		if client.playerID != "" && !seen[client.playerID] {
			seen[client.playerID] = true
			ids = append(ids, client.playerID)
		}
	}
	return ids
}

// BroadcastGameState pushes every connected player of a game their current
// view with a turn-aware status code. The REST handlers call this after
// mutating a game so WebSocket clients stay in sync.
func (h *Hub) BroadcastGameState(gameID string) {
	h.broadcastTurnState(context.Background(), gameID)
}

func (h *Hub) broadcastTurnState(ctx context.Context, gameID string) {
	for _, playerID := range h.roomPlayerIDs(gameID) {
		view, err := h.service.GameState(ctx, gameID, playerID)
		if err != nil {
			log.Warn().Err(err).Str("game_id", gameID).Str("player_id", playerID).Msg("failed to build player view")
			continue
		}
		msg := newMessage(TypeGameState, turnCode(view))
		msg.GameID = gameID
		msg.PlayerID = playerID
		msg.GameState = view
		msg.YourTurn = &view.YourTurn
		h.sendToPlayer(gameID, playerID, msg)
	}
}

// broadcastGameOver tells every connected player how the game ended.
func (h *Hub) broadcastGameOver(gameID string, info *service.GameOverInfo) {
	for _, playerID := range h.roomPlayerIDs(gameID) {
		msg := newMessage(TypeGameOver, StatusGameOver)
		msg.GameID = gameID
		msg.PlayerID = playerID
		msg.Winner = info.Winner
		msg.Loser = info.Loser
		msg.Reason = info.Reason
		if info.Result != nil {
			msg.TotalMoves = info.Result.TotalMoves
			msg.WinningMoves = info.Result.WinningMoves
		}
		switch {
		case playerID == info.Winner:
			msg.Message = "Victory!"
		case info.Reason == service.ReasonSurrender:
			msg.Message = "You surrendered"
		default:
			msg.Message = "Defeat"
		}
		h.sendToPlayer(gameID, playerID, msg)
	}
}

// turnCode picks the status code for a game_state push from the view's phase
// and turn.
func turnCode(view *engine.PlayerView) int {
	switch {
	case view.Phase == engine.PhaseInProgress && view.YourTurn:
		return StatusYourTurn
	case view.Phase == engine.PhaseInProgress:
		return StatusWaitingForOpponentTurn
	default:
		return StatusOK
	}
}

// trySend queues data for the client without blocking. Callers hold the hub
// lock, which keeps the send channel open for the duration.
func (c *Client) trySend(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Warn().Str("player_id", c.playerID).Msg("client send buffer full, dropping message")
	}
}

func (c *Client) displayName() string {
	if c.playerName != "" {
		return c.playerName
	}
	return c.playerID
}

// enqueue marshals and queues a message for this client's own connection.
func (c *Client) enqueue(msg *ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal server message")
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("player_id", c.playerID).Msg("client send buffer full, dropping message")
	}
}

func (c *Client) sendError(code int, message string) {
	if message == "" {
		message = StatusText(code)
	}
	msg := newMessage(TypeError, code)
	msg.Message = message
	c.enqueue(msg)
}

func (c *Client) sendServiceError(err error) {
	c.sendError(errorCode(err), err.Error())
}

// errorCode maps service and engine errors onto protocol status codes, most
// specific first. ErrShipOverlap wraps ErrShipPlacement, so it is checked
// before it.
func errorCode(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		return StatusReconnectFailed
	case errors.Is(err, service.ErrAlreadyInGame):
		return StatusPlayerAlreadyInGame
	case errors.Is(err, service.ErrPlayerNotInGame):
		return StatusPlayerNotFound
	case errors.Is(err, service.ErrFleetIncomplete):
		return StatusInvalidShipPlacement
	case errors.Is(err, session.ErrSessionNotFound):
		return StatusGameNotFound
	case errors.Is(err, engine.ErrShipOverlap):
		return StatusShipOverlap
	case errors.Is(err, engine.ErrShipPlacement):
		return StatusInvalidShipPlacement
	case errors.Is(err, engine.ErrInvalidShip):
		return StatusInvalidShipType
	case errors.Is(err, engine.ErrInvalidCoordinate):
		return StatusInvalidAttack
	case errors.Is(err, engine.ErrInvalidAttack):
		return StatusInvalidAttack
	case errors.Is(err, engine.ErrPlayer):
		return StatusNotYourTurn
	case errors.Is(err, engine.ErrGameState):
		return StatusInvalidGameState
	default:
		return StatusServerError
	}
}

// readPump pumps messages from the WebSocket connection to the game service.
//
// The application runs readPump in a per-connection goroutine. All inbound
// message handling happens here, which serializes every operation a single
// client performs.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("player_id", c.playerID).Msg("websocket closed unexpectedly")
			}
			break
		}
		c.handleMessage(data)
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(StatusInvalidJSON, "message is not valid JSON")
		return
	}

	ctx := context.Background()
	switch msg.Type {
	case TypeJoinGame:
		c.handleJoin(ctx, &msg)
	case TypeReconnect:
		c.handleReconnect(ctx, &msg)
	case TypePlaceShips:
		c.handlePlaceShips(ctx, &msg)
	case TypeAttack:
		c.handleAttack(ctx, &msg)
	case TypeSurrender:
		c.handleSurrender(ctx)
	case TypePing:
		c.enqueue(newMessage(TypePong, StatusOK))
	default:
		c.sendError(StatusInvalidMessage, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (c *Client) handleJoin(ctx context.Context, msg *ClientMessage) {
	if c.playerID != "" {
		c.sendError(StatusPlayerAlreadyInGame, "connection already joined a game")
		return
	}
	if msg.PlayerID == "" || msg.PlayerName == "" {
		c.sendError(StatusMissingField, "playerId and playerName are required")
		return
	}
	if err := validate.PlayerID(msg.PlayerID); err != nil {
		c.sendError(StatusInvalidPlayerName, err.Error())
		return
	}
	if err := validate.PlayerName(msg.PlayerName); err != nil {
		c.sendError(StatusInvalidPlayerName, err.Error())
		return
	}

	result, err := c.hub.service.JoinGame(ctx, msg.GameID, msg.PlayerID, msg.PlayerName)
	if err != nil {
		c.sendServiceError(err)
		return
	}

	c.gameID = roomKey(result.GameID)
	c.playerID = result.PlayerID
	c.playerName = result.PlayerName
	c.hub.register <- c

	log.Info().Str("game_id", result.GameID).Str("player_id", result.PlayerID).Msg("player joined via websocket")

	view, err := c.hub.service.GameState(ctx, c.gameID, c.playerID)
	if err != nil {
		log.Warn().Err(err).Str("game_id", c.gameID).Msg("failed to build player view")
	}

	if result.PlayerCount < engine.MaxPlayers {
		reply := newMessage(TypeGameState, StatusWaitingForOpponent)
		reply.GameID = result.GameID
		reply.PlayerID = result.PlayerID
		reply.Token = result.Token
		reply.Message = "Waiting for an opponent"
		reply.GameState = view
		c.enqueue(reply)
		return
	}

	// The joiner completed the game; the waiting player learns the game
	// moved on to ship placement.
	reply := newMessage(TypeGameState, StatusGameStarted)
	reply.GameID = result.GameID
	reply.PlayerID = result.PlayerID
	reply.Token = result.Token
	reply.Message = "Opponent found, place your ships"
	reply.GameState = view
	reply.OpponentID = result.OpponentID
	reply.OpponentName = result.OpponentName
	c.enqueue(reply)

	opponentView, err := c.hub.service.GameState(ctx, c.gameID, result.OpponentID)
	if err != nil {
		log.Warn().Err(err).Str("game_id", c.gameID).Msg("failed to build opponent view")
		return
	}
	note := newMessage(TypeGameState, StatusBothPlayersReady)
	note.GameID = result.GameID
	note.PlayerID = result.OpponentID
	note.Message = fmt.Sprintf("%s joined, place your ships", result.PlayerName)
	note.GameState = opponentView
	note.OpponentID = result.PlayerID
	note.OpponentName = result.PlayerName
	c.hub.sendToPlayer(c.gameID, result.OpponentID, note)
}

func (c *Client) handleReconnect(ctx context.Context, msg *ClientMessage) {
	if c.playerID != "" {
		c.sendError(StatusPlayerAlreadyInGame, "connection already joined a game")
		return
	}
	if msg.GameID == "" || msg.PlayerID == "" || msg.Token == "" {
		c.sendError(StatusMissingField, "gameId, playerId and token are required")
		return
	}

	view, err := c.hub.service.Reconnect(ctx, msg.GameID, msg.PlayerID, msg.Token)
	if err != nil {
		c.sendServiceError(err)
		return
	}

	c.gameID = roomKey(msg.GameID)
	c.playerID = msg.PlayerID
	c.hub.register <- c

	log.Info().Str("game_id", c.gameID).Str("player_id", c.playerID).Msg("player reconnected")

	reply := newMessage(TypeGameState, StatusReconnectSuccess)
	reply.GameID = msg.GameID
	reply.PlayerID = msg.PlayerID
	reply.Message = "Reconnected"
	reply.GameState = view
	reply.YourTurn = &view.YourTurn
	c.enqueue(reply)

	note := newMessage(TypeNotification, StatusOpponentReconnected)
	note.GameID = msg.GameID
	note.Message = fmt.Sprintf("%s reconnected", c.displayName())
	c.hub.sendToOpponent(c.gameID, c.playerID, note)
}

func (c *Client) handlePlaceShips(ctx context.Context, msg *ClientMessage) {
	if c.playerID == "" {
		c.sendError(StatusPlayerNotFound, "join a game first")
		return
	}
	if len(msg.Ships) == 0 {
		c.sendError(StatusMissingField, "ships is required")
		return
	}

	rules, err := c.hub.service.Rules(ctx, c.gameID)
	if err != nil {
		c.sendServiceError(err)
		return
	}
	if err := validate.Fleet(msg.Ships, *rules); err != nil {
		c.sendError(StatusInvalidShipPlacement, err.Error())
		return
	}

	result, err := c.hub.service.PlaceFleet(ctx, c.gameID, c.playerID, msg.Ships)
	if err != nil {
		c.sendServiceError(err)
		return
	}

	view, err := c.hub.service.GameState(ctx, c.gameID, c.playerID)
	if err != nil {
		log.Warn().Err(err).Str("game_id", c.gameID).Msg("failed to build player view")
	}

	reply := newMessage(TypeGameState, StatusShipsPlaced)
	reply.GameID = result.GameID
	reply.PlayerID = result.PlayerID
	reply.Message = fmt.Sprintf("%d of %d ships placed", result.ShipsPlaced, result.FleetSize)
	reply.GameState = view
	c.enqueue(reply)

	if result.Phase == engine.PhaseInProgress {
		// Both fleets are in; each player learns whose turn it is.
		c.hub.broadcastTurnState(ctx, c.gameID)
		return
	}

	note := newMessage(TypeNotification, StatusAllShipsPlaced)
	note.GameID = result.GameID
	note.Message = fmt.Sprintf("%s has placed their ships", c.displayName())
	c.hub.sendToOpponent(c.gameID, c.playerID, note)
}

func (c *Client) handleAttack(ctx context.Context, msg *ClientMessage) {
	if c.playerID == "" {
		c.sendError(StatusPlayerNotFound, "join a game first")
		return
	}
	if msg.Coordinate == nil {
		c.sendError(StatusMissingField, "coordinate is required")
		return
	}

	report, err := c.hub.service.Attack(ctx, c.gameID, c.playerID, *msg.Coordinate)
	if err != nil {
		c.sendServiceError(err)
		return
	}
	res := report.Result

	log.Info().
		Str("game_id", c.gameID).
		Str("player_id", c.playerID).
		Str("coordinate", res.AttackedCoordinate.String()).
		Str("outcome", string(res.Outcome)).
		Msg("attack")

	reply := newMessage(TypeAttackResult, StatusAttackRegistered)
	reply.GameID = report.GameID
	reply.PlayerID = report.PlayerID
	reply.Coordinate = &res.AttackedCoordinate
	reply.Outcome = res.Outcome
	reply.ShipSunk = res.ShipSunk
	reply.ShipType = res.SunkShipType
	reply.GameFinished = res.GameFinished
	c.enqueue(reply)

	move := newMessage(TypeOpponentMove, StatusAttackRegistered)
	move.GameID = report.GameID
	move.PlayerID = res.DefenderID
	move.Coordinate = &res.AttackedCoordinate
	move.Outcome = res.Outcome
	move.ShipSunk = res.ShipSunk
	move.ShipType = res.SunkShipType
	move.GameFinished = res.GameFinished
	if defenderView, err := c.hub.service.GameState(ctx, c.gameID, res.DefenderID); err == nil {
		move.Board = defenderView.OwnBoard
	}
	c.hub.sendToPlayer(c.gameID, res.DefenderID, move)

	if !report.Finished {
		c.hub.broadcastTurnState(ctx, c.gameID)
		return
	}

	info := &service.GameOverInfo{
		GameID: report.GameID,
		Winner: report.Winner,
		Loser:  res.DefenderID,
		Reason: service.ReasonAllShipsSunk,
	}
	if result, err := c.hub.service.GameResult(ctx, c.gameID); err == nil {
		info.Result = result
	}
	c.hub.broadcastGameOver(c.gameID, info)
}

func (c *Client) handleSurrender(ctx context.Context) {
	if c.playerID == "" {
		c.sendError(StatusPlayerNotFound, "join a game first")
		return
	}

	info, err := c.hub.service.Surrender(ctx, c.gameID, c.playerID)
	if err != nil {
		c.sendServiceError(err)
		return
	}

	log.Info().Str("game_id", c.gameID).Str("player_id", c.playerID).Msg("player surrendered")
	c.hub.broadcastGameOver(c.gameID, info)
}

// writePump pumps messages from the send channel to the WebSocket connection.
//
// A goroutine running writePump is started for each connection. It also keeps
// the connection alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket frame, newline
			// separated.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
