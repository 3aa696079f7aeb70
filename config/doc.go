// Package config provides server configuration from the environment.
//
// The config package handles:
//   - Parsing BATTLESHIP_* environment variables into a typed struct
//   - Defaults for every setting so a bare invocation just works
//   - Validation of ports, timeouts, and sizes
//
// Settings:
//
//   - BATTLESHIP_HOST / BATTLESHIP_PORT: HTTP bind address (0.0.0.0:8080)
//   - BATTLESHIP_BOARD_SIZE: board size for new games (10)
//   - BATTLESHIP_GAME_TIMEOUT: session expiry after inactivity (30m)
//   - BATTLESHIP_RECONNECT_TIMEOUT: grace period for dropped players (5m)
//   - BATTLESHIP_LOG_LEVEL / BATTLESHIP_LOG_FILE: zerolog level and optional file tee
//   - BATTLESHIP_HEARTBEAT: websocket ping interval (30s)
//   - BATTLESHIP_MAX_MESSAGE_SIZE: websocket read limit in bytes (65536)
//   - BATTLESHIP_SESSIONS_DIR / BATTLESHIP_PERSIST: file persistence (sessions, true)
//
// Usage:
//
//	godotenv.Load()
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	http.ListenAndServe(cfg.Addr(), handler)
//
// Command-line flags may override individual fields after Load; the struct
// is plain data and carries no behavior beyond validation.
package config
