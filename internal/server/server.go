// Package server provides the HTTP server setup for go-pdftools.
//
// NewServer creates and configures the HTTP server and the session manager
// that owns the scratch directory.
//
// Expected outputs:
// - Server listens on the configured port (default 8080)
// - Scratch files left behind by interrupted runs are swept periodically
//
// Usage:
//
//	server, err := server.NewServer(ctx, config.FromEnv())
//	server.ListenAndServe()
//
// See internal/server/routes.go for route registration.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-pdftools/internal/config"
	"go-pdftools/internal/metrics"
	"go-pdftools/internal/session"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

const sweepInterval = time.Minute

type Server struct {
	port           int
	SessionManager *session.SessionManager
	Limits         config.LimitsConfig
	WaitTimeout    time.Duration
	CORSOrigins    []string
}

// New builds the Server without starting background work.
func New(cfg config.Config) (*Server, error) {
	sm, err := session.NewSessionManager(cfg.Run.ScratchDir)
	if err != nil {
		return nil, err
	}
	return &Server{
		port:           cfg.Server.Port,
		SessionManager: sm,
		Limits:         cfg.Limits,
		WaitTimeout:    cfg.Run.WaitTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
	}, nil
}

// NewServer returns the http.Server for cfg. Stale scratch files are swept
// until ctx ends.
func NewServer(ctx context.Context, cfg config.Config) (*http.Server, error) {
	srv, err := New(cfg)
	if err != nil {
		return nil, err
	}
	metrics.Init()

	// Cleanup goroutine for scratch files of crashed runs
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.SessionManager.Sweep(cfg.Run.ScratchMaxAge)
			}
		}
	}()

	log.Info().Str("scratch_dir", cfg.Run.ScratchDir).Int("port", srv.port).Msg("server configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  time.Minute,
		WriteTimeout: cfg.Run.WaitTimeout + 2*time.Minute,
	}

	return server, nil
}
