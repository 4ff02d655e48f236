// main is the entry point of the registration form service.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the SQLite database and make sure the RegisterForm table exists
//  4. Register all HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down, then close the database
//
// RUNNING THE SERVER:
//
//	go run ./cmd/registration-form --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/registration-form
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/registration-form/internal/config"
	"github.com/aanand-mishra/registration-form/internal/form"
	"github.com/aanand-mishra/registration-form/internal/http/handlers/registration"
	"github.com/aanand-mishra/registration-form/internal/metrics"
	"github.com/aanand-mishra/registration-form/internal/storage/sqlite"
)

func main() {
	os.Exit(run())
}

// run owns every resource, so its deferred calls (closing the database in
// particular) happen before main exits.
func run() int {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting registration-form",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	store, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to open storage",
			slog.String("path", cfg.StoragePath),
			slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	if cfg.ResetTable {
		if err := store.DropTable(); err != nil {
			log.Error("failed to drop table", slog.String("error", err.Error()))
			return 1
		}
		log.Warn("registration table dropped")
	}

	if err := store.CreateTable(); err != nil {
		log.Error("failed to create table", slog.String("error", err.Error()))
		return 1
	}

	log.Info("storage initialised", slog.String("path", cfg.StoragePath))

	// Route table:
	//   POST /api/registrations           → submit a registration
	//   GET  /api/registrations/{id}      → fetch one registration
	//   POST /api/registrations/validate  → check a single field
	//   GET  /metrics                     → Prometheus metrics
	f := form.New(store)
	m := metrics.New()

	router := http.NewServeMux()
	router.HandleFunc("POST /api/registrations", registration.New(f, m))
	router.HandleFunc("GET /api/registrations/{id}", registration.GetByID(f))
	router.HandleFunc("POST /api/registrations/validate", registration.ValidateField(f, m))
	router.Handle("GET /metrics", m.Handler())

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed after Shutdown.
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.Info("shutdown signal received, stopping server...")
	case err := <-serverErr:
		log.Error("server encountered an error", slog.String("error", err.Error()))
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		return 1
	}

	log.Info("server stopped gracefully")
	return 0
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// dev (and anything unrecognised) gets human-readable text at DEBUG level;
// staging and prod get JSON, at DEBUG and INFO respectively.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
