package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duskmantle/beacon/internal/config"
	"github.com/duskmantle/beacon/internal/handlers"
	"github.com/duskmantle/beacon/internal/logger"
	"github.com/duskmantle/beacon/internal/middleware"
	"github.com/duskmantle/beacon/internal/services"
	"github.com/duskmantle/beacon/internal/storage"
	"github.com/duskmantle/beacon/pkg/engine"
	"github.com/duskmantle/beacon/pkg/story"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Beacon API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir,
		"start_chapter", cfg.StartChapter)

	library := story.NewLibrary(cfg.DataDir, log)
	if err := library.Load(); err != nil {
		log.Error("Failed to load story content", "error", err)
		os.Exit(1)
	}

	store := storage.NewRedisStorage(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	director := services.NewLiveDirector(services.NewOpenAIService(), log)
	eng := engine.New(library, director, engine.NewRand(), log)
	eng.StartChapter = cfg.StartChapter

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, library, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(eng, store, log)
	mux.Handle("/v1/session", sessionHandler)
	mux.Handle("/v1/session/", sessionHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
