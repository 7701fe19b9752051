package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/guileen/fedsql/backend"
	"github.com/guileen/fedsql/logger"
	"github.com/guileen/fedsql/protocol/api"
)

func main() {
	startTime := time.Now()
	logger.Info("Starting fedsql server", "startup_time", startTime.Format(time.RFC3339))

	// Backend registry; backends register over the API
	registry := backend.NewRegistry()
	defer registry.Close()

	// Create federation handler
	logger.Info("Creating federation handler")
	handler := api.NewFederationHandler(registry)

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	handler.RegisterRoutes(r)

	// Start server
	port := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		port = ":" + p
	}

	logger.Info("Creating HTTP server", "port", port)
	server := &http.Server{
		Addr:    port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server listening", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed to start", "error", err, "port", port)
			log.Fatalf("HTTP server failed to start: %v", err)
		}
	}()

	initDuration := time.Since(startTime)
	logger.Info("Server initialization complete", "init_duration", initDuration.String())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	// Shutdown server gracefully
	logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
		log.Fatalf("HTTP server shutdown failed: %v", err)
	}
	logger.Info("HTTP server shutdown complete")
}
