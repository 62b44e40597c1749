// Package http serves the messaging webhook and the health probes.
package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gastos/internal/cache"
	"gastos/internal/interpreter"
	"gastos/internal/log"
	"gastos/internal/middleware/ratelimit"
	"gastos/internal/middleware/security"
	"gastos/internal/middleware/trace"
)

const (
	maxFormBytes      = 64 << 10
	readHeaderTimeout = 5 * time.Second
	requestTimeout    = 15 * time.Second
)

// Interpreter answers one inbound message.
type Interpreter interface {
	Interpret(ctx context.Context, text string) interpreter.Result
}

// Pinger reports whether the ledger can be read.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the server. Zero values take the defaults.
type Options struct {
	RateLimitPerMinute int
	ReplyCacheTTL      time.Duration
	ReplyCacheSize     int
}

func (o Options) withDefaults() Options {
	if o.RateLimitPerMinute <= 0 {
		o.RateLimitPerMinute = 60
	}
	if o.ReplyCacheTTL <= 0 {
		o.ReplyCacheTTL = 10 * time.Minute
	}
	if o.ReplyCacheSize <= 0 {
		o.ReplyCacheSize = 500
	}
	return o
}

type Server struct {
	http.Server
	interp Interpreter
	ready  Pinger

	// replies holds rendered TwiML documents keyed by provider message id.
	replies  *cache.LRUCache[[]byte]
	inflight singleflight.Group

	detector    *security.Detector
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware
	caches      *cache.Manager
	logger      *log.Logger

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, interp Interpreter, ready Pinger, opts Options) *Server {
	opts = opts.withDefaults()

	s := &Server{
		interp:      interp,
		ready:       ready,
		replies:     cache.NewLRUCache[[]byte](opts.ReplyCacheSize, opts.ReplyCacheTTL),
		detector:    security.NewDetector(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		caches:      cache.NewManager(),
		logger:      log.WithComponent(log.ComponentHTTP),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)

	s.caches.Register(s.replies)
	s.caches.StartCleanup(opts.ReplyCacheTTL)

	mux := http.NewServeMux()
	limited := s.rateLimiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit)
	mux.Handle("/webhook", limited(http.HandlerFunc(s.handleWebhook)))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(headers.Middleware(s.probeGuard(mux))),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       requestTimeout,
		WriteTimeout:      requestTimeout,
	}
	return s
}

// probeGuard logs scanner traffic before routing it.
func (s *Server) probeGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				log.FieldPath, r.URL.Path,
				log.FieldMethod, r.Method,
				log.FieldClientIP, s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe runs until Shutdown; http.ErrServerClosed is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.Addr)
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
