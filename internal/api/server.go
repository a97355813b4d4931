// Package api serves sustainability reports over HTTP.
//
// Routes:
//
//	POST /            generate a report from {materials?, transport?, energy?}
//	GET  /materials   page through the most recently seen materials
//	GET  /healthz     liveness probe
//
// CORS preflight requests are answered before any validation runs. Every
// response carries a metadata envelope.
package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/ecoscore/internal/engine"
	"github.com/rshade/ecoscore/internal/engine/cache"
	"github.com/rshade/ecoscore/internal/ingest"
)

// HTTP header names.
const (
	HeaderRequestID  = "X-Request-ID"
	HeaderAPIVersion = "X-API-Version"
	HeaderRetryAfter = "Retry-After"
	HeaderRemaining  = "X-RateLimit-Remaining"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 10 << 20

// MaterialSource supplies the materials listing when no request has
// populated it yet.
type MaterialSource interface {
	ListMaterials(ctx context.Context) ([]ingest.Material, error)
}

// Config holds HTTP-layer settings.
type Config struct {
	// CORSOrigin is returned in Access-Control-Allow-Origin.
	CORSOrigin string

	// Development exposes stack traces in error responses.
	Development bool

	// MaxBodyBytes bounds request bodies; zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Server is the HTTP API.
type Server struct {
	engine    *engine.Engine
	reports   cache.Store
	materials cache.Store
	source    MaterialSource
	limiter   *RateLimiter
	cfg       Config
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithReportCache sets the computed-report cache.
func WithReportCache(c cache.Store) Option {
	return func(s *Server) { s.reports = c }
}

// WithMaterialsCache sets the materials listing cache.
func WithMaterialsCache(c cache.Store) Option {
	return func(s *Server) { s.materials = c }
}

// WithMaterialSource seeds the materials listing from src.
func WithMaterialSource(src MaterialSource) Option {
	return func(s *Server) { s.source = src }
}

// WithRateLimiter enables per-client rate limiting.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) { s.limiter = rl }
}

// WithConfig sets HTTP-layer settings.
func WithConfig(cfg Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithLogger sets the base logger attached to every request context.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithClock replaces the clock used for metadata.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server. Caches default to NopStore.
func New(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		engine:    eng,
		reports:   cache.NopStore{},
		materials: cache.NopStore{},
		cfg:       Config{CORSOrigin: "*"},
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.MaxBodyBytes <= 0 {
		s.cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /{$}", s.limited(http.HandlerFunc(s.handleReport)))
	mux.Handle("GET /materials", s.limited(http.HandlerFunc(s.handleMaterials)))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("/", s.handleNotFound)

	return s.requestContext(s.cors(s.versionCheck(mux)))
}

// clientKey identifies a caller for rate limiting.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
