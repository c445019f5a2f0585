// Package main API.
//
// go-pdftools provides a REST API for adding images to PDF pages, converting
// images to PDF and merging PDFs.
//
//	Schemes: http
//	BasePath: /
//	Version: 1.0.0
//	Host: localhost:8080
//
//	Consumes:
//	- multipart/form-data
//
//	Produces:
//	- application/json
//	- application/pdf
//	- application/zip
//	- image/png
//
// swagger:meta
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-pdftools/internal/config"
	"go-pdftools/internal/logger"
	"go-pdftools/internal/server"

	"github.com/rs/zerolog/log"
)

func gracefulShutdown(ctx context.Context, stop context.CancelFunc, apiServer *http.Server, done chan bool, cleanupFunc func()) {
	// Listen for the interrupt signal, then restore default signal handling.
	<-ctx.Done()
	stop()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if cleanupFunc != nil {
		log.Info().Msg("cleaning scratch directory")
		cleanupFunc()
	}

	log.Info().Msg("server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// cleanupScratch removes every file in dir, leaving the directory itself.
func cleanupScratch(dir string) func() {
	return func() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				_ = os.Remove(filepath.Join(dir, entry.Name()))
			}
		}
	}
}

func main() {
	cfg := config.FromEnv()
	if err := logger.Init(logger.Options{
		Level:      cfg.Logging.Level,
		Pretty:     cfg.Logging.Pretty,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}); err != nil {
		log.Fatal().Err(err).Msg("logger init")
	}
	defer logger.Close()

	cleanup := cleanupScratch(cfg.Run.ScratchDir)
	cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("starting server")

	apiServer, err := server.NewServer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("server init")
	}

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	go gracefulShutdown(ctx, stop, apiServer, done, cleanup)

	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info().Msg("graceful shutdown complete")
}
