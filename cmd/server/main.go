/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the PulseGym commission dashboard server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment / .env
  2. Build the structured logger
  3. Initialize the SQLite snapshot store
  4. Wire the feed (debounced recomputation) and API handler
  5. Replay the most recent stored snapshot into the feed
  6. Start server with graceful shutdown

ENVIRONMENT:
  PORT                  HTTP server port (default: 8080)
  DB_PATH               SQLite database path (default: ./data/sales.db)
                        Use ":memory:" for an in-memory database
  DEBOUNCE              Quiet window before recomputing (default: 200ms)
  CORS_ALLOWED_ORIGINS  Comma-separated origins for the dashboard
  LOG_FORMAT            console | json (default: console)
  LOG_LEVEL             trace..panic (default: info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - feed/feed.go: Recomputation driver
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pulsegym/sales-engine/api"
	"github.com/pulsegym/sales-engine/config"
	"github.com/pulsegym/sales-engine/engine"
	"github.com/pulsegym/sales-engine/feed"
	"github.com/pulsegym/sales-engine/obs"
	"github.com/pulsegym/sales-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := obs.NewLogger("console", "info")
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)

	st, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("failed to initialize database")
	}
	defer st.Close()

	fd := feed.NewRecomputer(engine.DefaultConfig(),
		feed.WithDebounce(cfg.Debounce),
		feed.WithLogger(log),
	)

	handler := api.NewHandler(st, fd, log)

	// Replay the latest stored snapshot so the read model survives restarts.
	if err := handler.Replay(context.Background()); err != nil {
		log.Warn().Err(err).Msg("failed to replay stored snapshot")
	}

	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("env", cfg.AppEnv).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
