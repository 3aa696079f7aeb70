package websocket

import (
	"time"

	"github.com/LudwigRoderich/BatallaNaval/game/engine"
	"github.com/LudwigRoderich/BatallaNaval/game/service"
)

// Client to server message types.
const (
	TypeJoinGame   = "join_game"
	TypeReconnect  = "reconnect"
	TypePlaceShips = "place_ships"
	TypeAttack     = "attack"
	TypeSurrender  = "surrender"
	TypePing       = "ping"
)

// Server to client message types.
const (
	TypeGameState    = "game_state"
	TypeAttackResult = "attack_result"
	TypeOpponentMove = "opponent_move"
	TypeGameOver     = "game_over"
	TypeError        = "error"
	TypeNotification = "notification"
	TypePong         = "pong"
)

// Protocol status codes. The full table is part of the wire contract, so
// codes are defined here even when only clients are expected to act on them.
const (
	StatusOK          = 200
	StatusGameCreated = 201

	StatusWaitingForOpponent     = 210
	StatusBothPlayersReady       = 211
	StatusGameStarted            = 212
	StatusShipsPlaced            = 213
	StatusAllShipsPlaced         = 214
	StatusYourTurn               = 215
	StatusWaitingForOpponentTurn = 216
	StatusAttackRegistered       = 217

	StatusGameOver = 220
	StatusVictory  = 221
	StatusDefeat   = 222

	StatusReconnectSuccess    = 230
	StatusOpponentReconnected = 231

	StatusInvalidMessage = 400
	StatusInvalidJSON    = 401
	StatusMissingField   = 402

	StatusPlayerNotFound      = 410
	StatusPlayerAlreadyInGame = 411
	StatusInvalidPlayerName   = 412
	StatusPlayerLimitReached  = 413

	StatusGameNotFound       = 420
	StatusGameAlreadyStarted = 421
	StatusGameAlreadyFull    = 422
	StatusGameNotStarted     = 423
	StatusInvalidGameState   = 424

	StatusInvalidShipPlacement = 430
	StatusShipOverlap          = 431
	StatusInvalidShipType      = 432
	StatusShipsAlreadyPlaced   = 433

	StatusInvalidAttack             = 440
	StatusCoordinateAlreadyAttacked = 441
	StatusNotYourTurn               = 442

	StatusConnectionLost    = 450
	StatusReconnectFailed   = 451
	StatusConnectionTimeout = 452

	StatusServerError   = 500
	StatusDatabaseError = 501
)

var statusText = map[int]string{
	StatusOK:                        "OK",
	StatusGameCreated:               "GAME_CREATED",
	StatusWaitingForOpponent:        "WAITING_FOR_OPPONENT",
	StatusBothPlayersReady:          "BOTH_PLAYERS_READY",
	StatusGameStarted:               "GAME_STARTED",
	StatusShipsPlaced:               "SHIPS_PLACED",
	StatusAllShipsPlaced:            "ALL_SHIPS_PLACED",
	StatusYourTurn:                  "YOUR_TURN",
	StatusWaitingForOpponentTurn:    "WAITING_FOR_OPPONENT_TURN",
	StatusAttackRegistered:          "ATTACK_REGISTERED",
	StatusGameOver:                  "GAME_OVER",
	StatusVictory:                   "VICTORY",
	StatusDefeat:                    "DEFEAT",
	StatusReconnectSuccess:          "RECONNECT_SUCCESS",
	StatusOpponentReconnected:       "OPPONENT_RECONNECTED",
	StatusInvalidMessage:            "INVALID_MESSAGE",
	StatusInvalidJSON:               "INVALID_JSON",
	StatusMissingField:              "MISSING_FIELD",
	StatusPlayerNotFound:            "PLAYER_NOT_FOUND",
	StatusPlayerAlreadyInGame:       "PLAYER_ALREADY_IN_GAME",
	StatusInvalidPlayerName:         "INVALID_PLAYER_NAME",
	StatusPlayerLimitReached:        "PLAYER_LIMIT_REACHED",
	StatusGameNotFound:              "GAME_NOT_FOUND",
	StatusGameAlreadyStarted:        "GAME_ALREADY_STARTED",
	StatusGameAlreadyFull:           "GAME_ALREADY_FULL",
	StatusGameNotStarted:            "GAME_NOT_STARTED",
	StatusInvalidGameState:          "INVALID_GAME_STATE",
	StatusInvalidShipPlacement:      "INVALID_SHIP_PLACEMENT",
	StatusShipOverlap:               "SHIP_OVERLAP",
	StatusInvalidShipType:           "INVALID_SHIP_TYPE",
	StatusShipsAlreadyPlaced:        "SHIPS_ALREADY_PLACED",
	StatusInvalidAttack:             "INVALID_ATTACK",
	StatusCoordinateAlreadyAttacked: "COORDINATE_ALREADY_ATTACKED",
	StatusNotYourTurn:               "NOT_YOUR_TURN",
	StatusConnectionLost:            "CONNECTION_LOST",
	StatusReconnectFailed:           "RECONNECT_FAILED",
	StatusConnectionTimeout:         "CONNECTION_TIMEOUT",
	StatusServerError:               "SERVER_ERROR",
	StatusDatabaseError:             "DATABASE_ERROR",
}

// StatusText returns the protocol name for a status code, or "UNKNOWN".
func StatusText(code int) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "UNKNOWN"
}

// ClientMessage is the envelope for everything a client sends. Type selects
// the operation; the other fields are its arguments.
type ClientMessage struct {
	Type       string             `json:"type"`
	GameID     string             `json:"gameId,omitempty"`
	PlayerID   string             `json:"playerId,omitempty"`
	PlayerName string             `json:"playerName,omitempty"`
	Token      string             `json:"token,omitempty"`
	Ships      []service.ShipSpec `json:"ships,omitempty"`
	Coordinate *engine.Coordinate `json:"coordinate,omitempty"`
}

// ServerMessage is the envelope for everything the server sends. Every
// message carries type, code and a unix-millisecond timestamp; the rest is
// the subset relevant to the message type.
type ServerMessage struct {
	Type      string `json:"type"`
	Code      int    `json:"code"`
	Timestamp int64  `json:"timestamp"`

	GameID   string `json:"gameId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
	Message  string `json:"message,omitempty"`

	GameState *engine.PlayerView `json:"gameState,omitempty"`
	YourTurn  *bool              `json:"yourTurn,omitempty"`
	Token     string             `json:"token,omitempty"`

	OpponentID   string `json:"opponentId,omitempty"`
	OpponentName string `json:"opponentName,omitempty"`

	Coordinate   *engine.Coordinate   `json:"coordinate,omitempty"`
	Outcome      engine.AttackOutcome `json:"outcome,omitempty"`
	ShipSunk     bool                 `json:"shipSunk,omitempty"`
	ShipType     engine.ShipType      `json:"shipType,omitempty"`
	GameFinished bool                 `json:"gameFinished,omitempty"`
	Board        [][]engine.CellState `json:"board,omitempty"`

	Winner       string `json:"winner,omitempty"`
	Loser        string `json:"loser,omitempty"`
	Reason       string `json:"reason,omitempty"`
	TotalMoves   int    `json:"totalMoves,omitempty"`
	WinningMoves int    `json:"winningMoves,omitempty"`
}

// newMessage builds a stamped envelope for a message type and status code.
func newMessage(msgType string, code int) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Code:      code,
		Timestamp: time.Now().UnixMilli(),
	}
}
