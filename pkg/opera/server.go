// Package opera implements the mock OPERA hotel-reservation API server.
//
// The server emulates the subset of the real OPERA API that client
// integrations exercise during development: room availability, the booking
// lifecycle (create, update, check-in, check-out, cancel), a health probe,
// and a documentation UI. See pkg/mapping for how each mock endpoint
// corresponds to a real OPERA endpoint.
package opera

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/operamock/operamock/internal/storage"
	"github.com/operamock/operamock/pkg/config"
	"github.com/operamock/operamock/pkg/logging"
	"github.com/operamock/operamock/pkg/recording"
	"github.com/operamock/operamock/pkg/webhook"
)

// Server is the mock OPERA API server.
type Server struct {
	cfg      *config.Config
	store    storage.BookingStore
	recorder *recording.Recorder
	webhooks *webhook.Emitter
	log      *slog.Logger

	httpSrv   *http.Server
	startedAt time.Time

	mu sync.Mutex
	ln net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithStore sets the booking store. Defaults to a file store at cfg.DBFile.
func WithStore(store storage.BookingStore) Option {
	return func(s *Server) { s.store = store }
}

// WithRecorder sets the validation capture log. Defaults to a recorder at
// cfg.ValidationOutput.
func WithRecorder(rec *recording.Recorder) Option {
	return func(s *Server) { s.recorder = rec }
}

// WithWebhookEmitter sets the booking-event emitter. Defaults to an emitter
// writing cfg.WebhookFile.
func WithWebhookEmitter(em *webhook.Emitter) Option {
	return func(s *Server) { s.webhooks = em }
}

// New creates a Server from the given configuration.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	if s.store == nil {
		store, err := storage.NewFileBookingStore(cfg.DBFile)
		if err != nil {
			return nil, err
		}
		s.store = store
	}
	if s.recorder == nil {
		s.recorder = recording.New(cfg.ValidationOutput)
	}
	if s.webhooks == nil {
		s.webhooks = webhook.NewEmitter(cfg.WebhookFile, cfg.WebhookURL, s.log)
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.httpSrv = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the server's HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Listen binds the configured address. Returning an error here (rather than
// from Serve) lets callers detect a port conflict before launching the
// serving goroutine.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return errors.New("server is already listening")
	}
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.cfg.Addr(), err)
	}
	s.ln = ln
	s.startedAt = time.Now()
	return nil
}

// Addr returns the bound listen address, or the configured address if the
// server has not started listening yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.Addr()
}

// Serve accepts connections until Shutdown is called. It calls Listen first
// if the caller has not. Returns nil after a clean shutdown.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		ln = s.ln
		s.mu.Unlock()
	}

	s.log.Info("mock OPERA API listening",
		"addr", ln.Addr().String(),
		"docs", s.cfg.DocsURL(),
		"db", s.cfg.DBFile)

	if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests up to
// the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down mock OPERA API")
	return s.httpSrv.Shutdown(ctx)
}

// Uptime returns whole seconds since the server started listening.
func (s *Server) Uptime() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() {
		return 0
	}
	return int64(time.Since(s.startedAt).Seconds())
}

// logRequests is a minimal structured access log.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}
