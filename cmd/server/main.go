/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the FCR record-keeping server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment config (.env supported), apply flag overrides
  2. Initialize SQLite store
  3. Seed the default currency on first run
  4. Run the record migration pass
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides FCR_PORT)
  -db      SQLite database path (overrides FCR_DB_PATH)
           Use ":memory:" for an in-memory database
  -env     Path to a .env file

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/fcr.db"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/farmstead/fcr-engine/api"
	"github.com/farmstead/fcr-engine/config"
	"github.com/farmstead/fcr-engine/fcr"
	"github.com/farmstead/fcr-engine/journal"
	"github.com/farmstead/fcr-engine/pkg/logger"
	"github.com/farmstead/fcr-engine/store/sqlite"
)

func main() {
	// Flags override environment config
	port := flag.Int("port", 0, "HTTP server port (overrides FCR_PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides FCR_DB_PATH)")
	envFile := flag.String("env", "", "path to .env file")
	flag.Parse()

	log := logger.Must(logger.New())
	defer log.Sync()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}

	// Initialize store
	store, err := sqlite.New(cfg.Storage.DBPath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()

	// Seed the currency on first run
	if code, err := store.Currency(ctx); err == nil && code == fcr.DefaultCurrency && cfg.DefaultCurrency != fcr.DefaultCurrency {
		if err := store.SetCurrency(ctx, cfg.DefaultCurrency); err != nil {
			log.Warn("failed to seed currency", zap.Error(err))
		}
	}

	j := journal.New(store, log)

	// Upgrade persisted records to the current schema
	if _, err := j.RunMigration(ctx); err != nil {
		log.Warn("migration pass failed", zap.Error(err))
	}
	if err := j.RefreshDayWeather(ctx, store); err != nil {
		log.Warn("weather cache rebuild failed", zap.Error(err))
	}

	// Create router
	handler := api.NewHandler(j, store)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server starting",
			zap.String("addr", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)),
			zap.String("db", cfg.Storage.DBPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
