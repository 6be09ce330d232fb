package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iammorganparry/hwsim/internal/api"
	"github.com/iammorganparry/hwsim/internal/config"
	"github.com/iammorganparry/hwsim/internal/logging"
	"github.com/iammorganparry/hwsim/internal/sessions"
	"github.com/iammorganparry/hwsim/internal/store"
)

func main() {
	// Logger
	logger := logging.NewJSONLogger(os.Getenv("LOG_LEVEL"), os.Stdout)

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// SQLite
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Sessions
	sessStore := sessions.NewSessionStore(db)
	eventStore := sessions.NewEventStore(db)
	svc := sessions.NewService(sessStore, eventStore, cfg.Scenario, cfg.MaxSessions, logger)

	// Router
	router := api.NewRouter(db, svc, cfg.MaxStepsPerRequest, cfg.APIKey, logger)

	// Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("hwsim server starting",
			"addr", addr,
			"db", cfg.DBPath,
			"scenario", cfg.ScenarioPath,
			"auth", cfg.APIKey != "",
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
