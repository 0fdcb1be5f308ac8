// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventlite/eventlite/internal/config"
	"github.com/eventlite/eventlite/internal/handler"
	"github.com/eventlite/eventlite/internal/service"
	"github.com/eventlite/eventlite/internal/store"
	"github.com/eventlite/eventlite/internal/store/jsonfile"
	"github.com/eventlite/eventlite/internal/store/postgres"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logging)

	// ── 1. Open the store ────────────────────────────────────────────────
	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}
	defer func() { _ = st.Close() }()
	logger.Info().Str("driver", cfg.Store.Driver).Msg("store ready")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	eventSvc := service.NewEventService(st)
	eventHandler := handler.NewEventHandler(eventSvc)

	// ── 3. Build the router ──────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.RequestID(logger)) // attach correlation IDs
	r.Use(handler.RequestLogging(logger))
	r.Use(handler.CORS) // any origin may call the API

	// Health
	r.Get("/health", handler.HealthCheck)

	// API routes
	r.Get("/events", eventHandler.ListEvents)
	r.Post("/events", eventHandler.CreateEvent)
	r.Put("/events/{id}", eventHandler.UpdateEvent)
	r.Post("/register", eventHandler.Register)
	r.Post("/cancel", eventHandler.Cancel)
	r.Get("/registrations", eventHandler.ListRegistrations)

	// Static HTML – serve the web/ directory at the root.
	webFS := http.Dir("./web")
	r.Handle("/*", http.FileServer(webFS))

	// ── 4. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

// openStore selects the persistence driver. The flat-file driver is the
// default; Postgres backs the same contract when configured.
func openStore(cfg config.Config, logger zerolog.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return postgres.Open(ctx, cfg.Store.DatabaseURL, logger)
	default:
		return jsonfile.Open(cfg.Store.DataDir, logger)
	}
}
