// Package devserver is a local stand-in for the generation service. It
// speaks the same wire contract, paints a real PNG from the selected
// emotions' palettes and derives a deterministic story analysis, so the
// client and journeys can be exercised without the remote models.
package devserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/drawmyfeelings/journey/devmode"
	"github.com/drawmyfeelings/journey/internal/devserver/recovery"
	"github.com/drawmyfeelings/journey/internal/devserver/respond"
	"github.com/drawmyfeelings/journey/internal/wire"
)

// Endpoint names passed to Faults.
const (
	EndpointFeeling = "feeling"
	EndpointStory   = "story"
	EndpointHealth  = "health"
)

// Fault is an injected failure. A zero Status means 503.
type Fault struct {
	Status  int
	Code    string
	Message string
}

// Faults decides per request whether an endpoint fails. Returning nil lets
// the request through.
type Faults func(endpoint string) *Fault

// Server serves the visualization routes.
type Server struct {
	log       zerolog.Logger
	latency   time.Duration
	imageSize int
	apiKey    string

	mu     sync.RWMutex
	faults Faults
}

// Option configures a Server.
type Option func(*Server)

// WithLatency delays every generation response by d, honouring request
// cancellation.
func WithLatency(d time.Duration) Option { return func(s *Server) { s.latency = d } }

// WithFaults installs f.
func WithFaults(f Faults) Option { return func(s *Server) { s.faults = f } }

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Server) { s.log = l } }

// WithImageSize sets the edge length of generated images.
func WithImageSize(px int) Option { return func(s *Server) { s.imageSize = px } }

// WithAPIKey requires "Authorization: Bearer key" on every route.
func WithAPIKey(key string) Option { return func(s *Server) { s.apiKey = key } }

// New constructs a Server.
func New(opts ...Option) *Server {
	s := &Server{log: zerolog.Nop(), imageSize: 256}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetFaults replaces the fault hook while serving.
func (s *Server) SetFaults(f Faults) {
	s.mu.Lock()
	s.faults = f
	s.mu.Unlock()
}

func (s *Server) fault(endpoint string) *Fault {
	s.mu.RLock()
	f := s.faults
	s.mu.RUnlock()
	if f == nil {
		return nil
	}
	return f(endpoint)
}

// Handler returns the router. Visualization routes live under
// devmode.BasePath; /metrics exposes the process metrics.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix(devmode.BasePath + "/visualizations").Subrouter()
	api.Use(s.logRequests)
	if s.apiKey != "" {
		api.Use(s.requireAPIKey)
	}
	api.HandleFunc("/feeling", s.handleFeeling).Methods(http.MethodPost)
	api.HandleFunc("/story", s.handleStory).Methods(http.MethodPost)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/emotions", s.handleEmotions).Methods(http.MethodGet)
	return router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info().Str("addr", ln.Addr().String()).Str("base", devmode.BasePath).Msg("dev generation service listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Dur("elapsed", time.Since(start)).
			Msg("request served")
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token != s.apiKey {
			respond.WriteFailure(w, http.StatusUnauthorized, wire.CodeConfiguration, "Missing or invalid API key", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// wait sleeps for the configured latency. It reports false if the client
// went away first.
func (s *Server) wait(ctx context.Context) bool {
	if s.latency <= 0 {
		return true
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
