// Package server serves rendered fan frames over HTTP for previewing decks
// in a browser.
//
// Routes:
//
//	GET /                 preview page with an offset slider
//	GET /healthz          liveness and build info
//	GET /deck             the loaded deck as JSON
//	GET /frame.{format}   one frame: ?offset=pts or ?page=n, plus render options
//	GET /frames           JSON frames of a swipe: ?from=&to=&steps=&easing=
//
// Every request gets a fresh engine, so requests share no swipe state.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cardfan/pkg/deck"
	"github.com/matzehuels/cardfan/pkg/pipeline"
)

// DefaultAddr is the listen address of the preview server.
const DefaultAddr = "127.0.0.1:8080"

// Server is the preview server for one deck.
type Server struct {
	deck     *deck.Deck
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	timeout  time.Duration
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRenderDefaults sets the render options used when a request does not
// override them.
func WithRenderDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// WithTimeout bounds the time spent on one request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a server for d. A nil runner renders without caching.
func New(d *deck.Deck, runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		deck:    d,
		runner:  runner,
		logger:  log.Default(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/deck", s.handleDeck)
	r.Get("/frame.{format}", s.handleFrame)
	r.Get("/frames", s.handleFrames)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", "http://"+addr, "cards", len(s.deck.Cards))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
