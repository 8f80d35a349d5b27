// Package http provides the HTTP server hosting the MCP endpoint and the
// plain JSON tool API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	. "github.com/roelfdiedericks/slackclaw/internal/logging"
	"github.com/roelfdiedericks/slackclaw/internal/tools"
	"github.com/roelfdiedericks/slackclaw/internal/user"
)

// Server represents the HTTP server
type Server struct {
	server      *http.Server
	listener    net.Listener
	auth        *user.Credentials
	rateLimiter *RateLimiter
	deps        Deps
	mcpPath     string
	wg          sync.WaitGroup
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Listen  string            // Address to listen on (e.g., ":8010", "127.0.0.1:8010")
	MCPPath string            // Mount point of the MCP handler (default "/mcp")
	Auth    *user.Credentials // nil disables basic auth
}

// Deps are the handlers and state the server exposes.
type Deps struct {
	Tools    *tools.Registry
	MCP      http.Handler // Streamable HTTP handler
	Metrics  http.Handler // optional
	Sessions func() int   // live session count for /healthz
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *ServerConfig, deps Deps) (*Server, error) {
	if deps.Tools == nil {
		return nil, errors.New("http: tool registry is required")
	}

	listen := cfg.Listen
	if listen == "" {
		listen = ":8010"
	}
	mcpPath := cfg.MCPPath
	if mcpPath == "" {
		mcpPath = "/mcp"
	}

	s := &Server{
		auth:        cfg.Auth,
		rateLimiter: NewRateLimiter(10 * time.Second),
		deps:        deps,
		mcpPath:     mcpPath,
	}

	if s.auth == nil {
		L_warn("http: basic auth disabled, every route is open")
	}

	s.server = &http.Server{
		Addr:              listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Apply middleware chain: logging -> strip headers -> auth (with rate limit)
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return s.logRequest(s.stripHeaders(s.basicAuth(h)))
	}

	if s.deps.MCP != nil {
		mux.HandleFunc(s.mcpPath, wrap(s.deps.MCP.ServeHTTP))
	}
	mux.HandleFunc("GET /tools", wrap(s.handleListTools))
	mux.HandleFunc("POST /tools/{name}", wrap(s.handleCallTool))
	if s.deps.Metrics != nil {
		mux.HandleFunc("GET /metrics", wrap(s.deps.Metrics.ServeHTTP))
	}

	// Liveness stays open for probes
	mux.HandleFunc("GET /healthz", s.logRequest(s.stripHeaders(s.handleHealth)))

	return mux
}

// Start binds the listener and serves in the background. Bind errors are
// returned immediately.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		L_info("http: server starting", "addr", ln.Addr().String(), "mcp", s.mcpPath)

		err := s.server.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			L_error("http: server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		L_error("http: shutdown error", "error", err)
		return err
	}

	s.wg.Wait()
	L_info("http: server stopped")
	return nil
}

// logRequest wraps an HTTP handler to log requests
func (s *Server) logRequest(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(lw, r)

		L_trace("http: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", lw.statusCode,
			"duration", time.Since(start))
	}
}

// loggingResponseWriter wraps ResponseWriter to capture status code
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lw *loggingResponseWriter) WriteHeader(code int) {
	lw.statusCode = code
	lw.ResponseWriter.WriteHeader(code)
}

// Flush implements http.Flusher for streamed MCP responses
func (lw *loggingResponseWriter) Flush() {
	if f, ok := lw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer
func (lw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lw.ResponseWriter
}

// stripHeaders removes fingerprinting headers
func (s *Server) stripHeaders(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Del("Server")
		w.Header().Del("X-Powered-By")

		handler(w, r)
	}
}
