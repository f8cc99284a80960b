// Package main is the entry point for the local trips service, a stand-in
// for the json-server backend the catalog client talks to.
// Its sole responsibility is wiring dependencies together and starting the server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/trip-catalog/internal/config"
	"github.com/pkordes/trip-catalog/internal/domain"
	"github.com/pkordes/trip-catalog/internal/handler"
	"github.com/pkordes/trip-catalog/internal/middleware"
	"github.com/pkordes/trip-catalog/internal/repo"
	"github.com/pkordes/trip-catalog/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	var seed []domain.Trip
	if cfg.SeedFile != "" {
		seed, err = loadSeed(cfg.SeedFile)
		if err != nil {
			slog.Error("failed to load seed file", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
		slog.Info("seed loaded", "path", cfg.SeedFile, "trips", len(seed))
	}
	trips := service.NewTripService(repo.NewTripRepo(seed...))

	// --- Router -----------------------------------------------------------
	// RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", handler.NewServer(trips).Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
