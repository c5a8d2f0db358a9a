/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the shift-engine server. Handles configuration,
  store selection, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and environment config
  2. Parse command-line flags (override port/db path)
  3. Open the state store (redis when REDIS_ADDR is set, else SQLite)
  4. Create engine, websocket hub, API handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: SERVER_PORT or 8080)
  -db      SQLite database path (default: DB_PATH or shift.db)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/grindhub/shift-engine/api"
	"github.com/grindhub/shift-engine/config"
	"github.com/grindhub/shift-engine/shift"
	redisstore "github.com/grindhub/shift-engine/store/redis"
	"github.com/grindhub/shift-engine/store/sqlite"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.New()

	port := flag.String("port", cfg.ServerPort, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	store, closeStore, err := openStore(cfg, *dbPath)
	if err != nil {
		log.Fatalf("Failed to open state store: %v", err)
	}
	defer closeStore()

	engine := shift.NewEngine(store, cfg.Roster)
	hub := api.NewHub()
	handler := api.NewHandler(engine, shift.SystemClock{}, cfg, hub)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on http://localhost:%s", *port)
		log.Printf("📊 API available at http://localhost:%s/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// openStore picks redis when configured, sqlite otherwise.
func openStore(cfg *config.Config, dbPath string) (shift.Store, func(), error) {
	if cfg.RedisAddr != "" {
		s, err := redisstore.New(context.Background(), cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("redis store: %w", err)
		}
		log.Printf("State store: redis (%s)", cfg.RedisAddr)
		return s, func() { s.Close() }, nil
	}

	s, err := sqlite.New(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite store: %w", err)
	}
	log.Printf("State store: sqlite (%s)", dbPath)
	return s, func() { s.Close() }, nil
}
