package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"job-hunt-agent/internal/api/routes"
	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/session"
	"job-hunt-agent/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(utils.GetStringOrDefault(os.Getenv("CONFIG_PATH"), "configs/config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting AI Job Hunting Assistant", map[string]interface{}{
		"generation_provider": cfg.Generation.Provider,
		"session_store":       cfg.Session.Store,
	})

	// Initialize session store
	store, err := session.NewStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to create session store")
		os.Exit(1)
	}
	defer store.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
	if err := store.Ping(pingCtx); err != nil {
		logger.WithError(err).Warn("Session store not reachable yet")
	}
	cancelPing()

	registry := session.NewRegistry(cfg, store, session.NewAgentFactory(cfg, logger), logger)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Setup routes
	routes.SetupRoutes(e, routes.Dependencies{
		Config:   cfg,
		Registry: registry,
		Logger:   logger,
	})

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Error shutting down server")
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.WithField("address", address).Info("Server starting")

	if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("Server failed to start")
		os.Exit(1)
	}

	<-shutdownDone
}
