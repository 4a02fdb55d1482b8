package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/convert2mp3/convert2mp3/internal/config"
	"github.com/convert2mp3/convert2mp3/internal/download"
)

// Server exposes the download service to the browser extension over a
// local REST API.
type Server struct {
	cfg     *config.Config
	logger  zerolog.Logger
	svc     *download.Service
	router  chi.Router
	limiter *rate.Limiter
	version string
}

// New creates the HTTP server and mounts its routes.
func New(cfg *config.Config, svc *download.Service, version string, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		version: version,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.With(s.rateLimitMiddleware).Post("/convert", s.handleConvert)
	r.Get("/status/{id}", s.handleStatus)

	s.router = r
	return s
}

// Handler returns the HTTP handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer builds the listener-ready http.Server.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.HTTPBind, s.cfg.HTTPPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
