// Package server sets up the HTTP server and registers API routes for go-pdftools.
//
// RegisterRoutes returns an http.Handler with the tool endpoints, metrics
// and API docs.
//
// Expected outputs:
// - Tool endpoints are available under /api
// - Request IDs, access logs, panic recovery and CORS are enabled
// - /metrics serves prometheus metrics, /swagger/* is localhost only
package server

import (
	"net"
	"net/http"
	"time"

	_ "go-pdftools/docs"
	"go-pdftools/internal/handlers"
	"go-pdftools/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Only allow requests from localhost to /swagger/*
func localhostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, _ := net.SplitHostPort(r.RemoteAddr)
		if host != "127.0.0.1" && host != "::1" && host != "localhost" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger attaches the global logger to each request and writes one
// access line per response.
func requestLogger(next http.Handler) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(next)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = requestIDField(h)
	return hlog.NewHandler(log.Logger)(h)
}

// requestIDField adds chi's request ID to the request logger.
func requestIDField(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("request_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.CORSOrigins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Total-Pages", "X-Document-Count"},
	}))

	r.With(localhostOnly).Get("/swagger/*", httpSwagger.WrapHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	h := handlers.NewAPIHandler(s.SessionManager, s.Limits, s.WaitTimeout)
	r.Route("/api", func(api chi.Router) {
		api.Post("/overlay", h.OverlayImage)
		api.Post("/overlay/preview", h.PreviewOverlay)
		api.Post("/convert", h.ConvertImages)
		api.Post("/merge", h.MergeDocuments)
		api.Post("/inspect", h.InspectDocuments)
	})

	return r
}
