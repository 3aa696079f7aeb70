// Command batalla-naval starts the Batalla Naval game server.
//
// It supports two modes:
//  1. "server" (default) - runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" - runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Configuration comes from BATTLESHIP_* environment variables (a .env file is
// honored), with command line flags taking precedence. Optional ngrok
// tunneling exposes the server publicly during development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/LudwigRoderich/BatallaNaval/api"
	"github.com/LudwigRoderich/BatallaNaval/config"
	"github.com/LudwigRoderich/BatallaNaval/game/engine"
	"github.com/LudwigRoderich/BatallaNaval/game/service"
	"github.com/LudwigRoderich/BatallaNaval/game/session"
	"github.com/LudwigRoderich/BatallaNaval/transport/mcp"
	"github.com/LudwigRoderich/BatallaNaval/transport/websocket"
)

// Version is reported by --version and the startup log.
const Version = "1.0.0"

// main loads the environment, parses the command line, and starts the
// selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	cmd := newRootCommand(cfg)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// newRootCommand builds the CLI. Flags default to the environment-derived
// config, so a flag only wins when it is passed explicitly.
func newRootCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "batalla-naval",
		Usage:     "Two-player battleship server with REST, WebSocket, and MCP transports",
		Version:   Version,
		ArgsUsage: "[mode]",
		Description: "Modes:\n" +
			"   server, http   Run HTTP server with API, WebSocket, and MCP endpoint (default)\n" +
			"   stdio-mcp      Run MCP stdio server with internal HTTP server\n" +
			"   mcp, mcp-stdio Aliases for stdio-mcp",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "HTTP server host", Value: cfg.Host},
			&cli.IntFlag{Name: "port", Usage: "HTTP server port", Value: 8080},
			&cli.IntFlag{Name: "board-size", Usage: "Board size for games created without explicit rules", Value: 10},
			&cli.StringFlag{Name: "sessions-dir", Usage: "Directory for persisted game sessions", Value: cfg.SessionsDir},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel"},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token (or use NGROK_AUTHTOKEN env var)"},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, cfg)
		},
	}
}

// run applies flag overrides, initializes services, and dispatches on mode.
func run(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	mode := cmd.Args().First()
	if mode == "" {
		mode = "server"
	}

	log.Info().Str("version", Version).Str("mode", mode).Msg("starting batalla naval server")

	gameService, sessionManager, err := initializeServices(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		return runStdioMCP(cfg, gameService)
	case "server", "http":
		return runHTTPServer(ctx, cmd, cfg, gameService, sessionManager)
	default:
		return fmt.Errorf("unknown mode %q: use \"server\" (default) or \"stdio-mcp\"", mode)
	}
}

// applyFlags folds explicitly passed command line flags over the environment
// config.
func applyFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("board-size") {
		cfg.BoardSize = int(cmd.Int("board-size"))
	}
	if cmd.IsSet("sessions-dir") {
		cfg.SessionsDir = cmd.String("sessions-dir")
	}
	if cmd.Bool("debug") {
		cfg.LogLevel = "debug"
	}
}

// setupLogging configures the global zerolog logger: console output on
// stderr (stdout must stay clean for the stdio MCP mode), optionally teed
// into a plain-text log file.
func setupLogging(cfg *config.Config) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	writer := io.Writer(console)
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		writer = zerolog.MultiLevelWriter(console, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	return nil
}

// initializeServices wires session persistence, the session manager, and the
// game service, and starts the background maintenance routines.
func initializeServices(cfg *config.Config) (service.GameService, *session.Manager, error) {
	defaults := engine.DefaultRules()
	defaults.BoardSize = cfg.BoardSize
	if err := defaults.Validate(); err != nil {
		return nil, nil, fmt.Errorf("default rules: %w", err)
	}

	var sessionManager *session.Manager
	var persistence session.SessionPersistence
	if cfg.Persist {
		filePersistence, err := session.NewFilePersistence(cfg.SessionsDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		persistence = filePersistence
		sessionManager = session.NewManagerWithPersistence(persistence)

		if err := sessionManager.LoadPersisted(); err != nil {
			log.Warn().Err(err).Msg("failed to load persisted sessions")
		} else if n := sessionManager.Count(); n > 0 {
			log.Info().Int("sessions", n).Msg("restored persisted sessions")
		}
	} else {
		sessionManager = session.NewManager()
	}

	gameService := service.NewGameServiceWithRules(sessionManager, defaults)

	go sessionCleanupRoutine(sessionManager, cfg.GameTimeout)
	if persistence != nil {
		go filesystemSyncRoutine(sessionManager, persistence)
	}

	return gameService, sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have been inactive
// longer than the game timeout. Abandoned live games are forfeited before
// removal so the remaining player gets the win.
func sessionCleanupRoutine(manager *session.Manager, maxAge time.Duration) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if removed := manager.CleanupExpired(maxAge); removed > 0 {
			log.Info().Int("removed", removed).Msg("cleaned up expired sessions")
		}
	}
}

// filesystemSyncRoutine prunes in-memory sessions whose files were deleted,
// so removing a session file from disk is enough to retire a game.
func filesystemSyncRoutine(manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		pruned := 0
		for _, sess := range manager.List() {
			if !persistence.Exists(sess.ID) {
				if err := manager.Delete(sess.ID); err == nil {
					pruned++
					log.Info().Str("game_id", sess.ID).Msg("pruned session with deleted file")
				}
			}
		}
		if pruned > 0 {
			log.Info().Int("pruned", pruned).Msg("filesystem sync removed orphaned sessions")
		}
	}
}

// runHTTPServer starts the HTTP server with the REST API, WebSocket hub, and
// an /mcp proxy endpoint. If ngrok is enabled (via flag or environment), it
// also provisions a public tunnel serving the same router.
func runHTTPServer(ctx context.Context, cmd *cli.Command, cfg *config.Config, gameService service.GameService, manager *session.Manager) error {
	hub := websocket.NewHub(gameService)
	hub.SetMaxMessageSize(cfg.MaxMessageSize)
	go hub.Run()

	apiServer := api.NewServer(gameService, hub)

	addr := cfg.Addr()
	mcpClient := mcp.NewClient(cfg.BaseURL())

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHTTPHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Str("addr", addr).Msg("http server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Check if ngrok should be enabled (from flag or environment)
	ngrokShouldRun := cmd.Bool("ngrok")
	if !ngrokShouldRun {
		if envEnabled := os.Getenv("NGROK_ENABLED"); envEnabled == "true" || envEnabled == "1" {
			ngrokShouldRun = true
		}
	}

	if ngrokShouldRun {
		wg.Add(1)
		go func() {
			defer wg.Done()

			authToken := cmd.String("ngrok-auth")
			if authToken == "" {
				authToken = os.Getenv("NGROK_AUTHTOKEN")
			}
			if authToken == "" {
				log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
				return
			}

			log.Info().Msg("starting ngrok tunnel")

			domain := cmd.String("ngrok-domain")
			if domain == "" {
				domain = os.Getenv("NGROK_DOMAIN")
			}

			var tunnel ngrokConfig.Tunnel
			if domain != "" {
				tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
				log.Info().Str("domain", domain).Msg("using custom ngrok domain")
			} else {
				tunnel = ngrokConfig.HTTPEndpoint()
			}

			tun, err := ngrok.Listen(ctx,
				tunnel,
				ngrok.WithAuthtoken(authToken),
			)
			if err != nil {
				log.Error().Err(err).Msg("failed to start ngrok tunnel")
				return
			}
			defer func() {
				if err := tun.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close ngrok tunnel")
				}
			}()

			ngrokURL := tun.URL()
			log.Info().Str("url", ngrokURL).Msg("ngrok tunnel established")
			log.Info().Msgf("REST API (ngrok): %s/api", ngrokURL)
			log.Info().Msgf("WebSocket (ngrok): %s/ws", ngrokURL)
			log.Info().Msgf("MCP endpoint (ngrok): %s/mcp", ngrokURL)

			if err := http.Serve(tun, mainRouter); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("ngrok server error")
			}
			log.Info().Msg("ngrok tunnel closed")
		}()
	}

	sig := <-stop
	log.Info().Str("signal", sig.String()).Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	// Flush sessions so in-flight games survive a restart
	if err := manager.SaveAll(); err != nil {
		log.Error().Err(err).Msg("failed to save sessions on shutdown")
	}

	wg.Wait()
	log.Info().Msg("server stopped")
	return nil
}

// mcpHTTPHandler exposes the MCP server over plain HTTP POST, one JSON-RPC
// message per request body.
func mcpHTTPHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

// runStdioMCP serves MCP over stdio. It reuses an already-running API server
// when one answers on the configured address, otherwise it starts an internal
// HTTP API on a random loopback port and targets that.
func runStdioMCP(cfg *config.Config, gameService service.GameService) error {
	baseURL := cfg.BaseURL()

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Info().Str("url", baseURL).Msg("using external api server for mcp")
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		log.Info().Str("addr", internalAddr).Msg("starting internal http server for mcp stdio")

		hub := websocket.NewHub(gameService)
		hub.SetMaxMessageSize(cfg.MaxMessageSize)
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("internal http server error")
			}
		}()

		// Give the internal server a moment to start accepting
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)

	log.Info().Msg("mcp stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}
