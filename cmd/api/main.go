package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parbhani/backend/internal/config"
	"parbhani/backend/internal/reference"
	"parbhani/backend/internal/server"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	profiles := reference.Load(cfg.ProfilesPath)
	if profiles == "" {
		log.Printf("running without reference profile data")
	}

	var ai server.ModelClient
	if cfg.UseMockModel {
		log.Printf("USE_MOCK_MODEL enabled, completions are stubbed")
		ai = server.MockModelClient{}
	} else {
		ai = server.NewGeminiClient(cfg)
	}

	sessions := server.NewSessionStore(cfg.SessionMaxTurns, cfg.SessionMaxUsers)
	app := server.New(cfg, ai, sessions, profiles)

	httpServer := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("parbhani chat api listening on http://localhost:%s", cfg.AppPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
