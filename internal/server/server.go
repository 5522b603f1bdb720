// Package server implements the HTTP surface: the root discovery document
// and the two MCP transports, with per-request credential resolution.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server is the iterable-mcp HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
	version    string
}

// ServerConfig holds all dependencies and configuration for creating a Server.
type ServerConfig struct {
	MCPServer *mcpserver.MCPServer
	Logger    *slog.Logger

	// DefaultAPIKey is the process-level fallback credential. Empty means
	// every caller must bring their own key.
	DefaultAPIKey string

	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string
}

// New creates a new HTTP server with all routes configured.
func New(cfg ServerConfig) *Server {
	s := &Server{
		logger:  cfg.Logger,
		version: cfg.Version,
	}

	withCredential := func(next http.Handler) http.Handler {
		return credentialMiddleware(cfg.Logger, cfg.DefaultAPIKey, next)
	}

	mux := http.NewServeMux()

	// Root discovery document (no credential required).
	mux.HandleFunc("GET /{$}", s.handleRoot)

	// Health (no credential, no envelope).
	mux.HandleFunc("GET /health", s.handleHealth)

	// MCP StreamableHTTP transport. The credential middleware runs on every
	// MCP request, so each tool call sees the credential of its own request.
	mcpHTTP := mcpserver.NewStreamableHTTPServer(cfg.MCPServer)
	mux.Handle("/mcp", withCredential(mcpHTTP))

	// MCP SSE transport. The event stream and its message endpoint are both
	// credential-gated; tool calls arrive on /message, so resolution there is
	// what the handlers observe.
	sse := mcpserver.NewSSEServer(cfg.MCPServer)
	mux.Handle("/sse", withCredential(sse.SSEHandler()))
	mux.Handle("/message", withCredential(sse.MessageHandler()))

	// Middleware chain (outermost executes first):
	// request ID → tracing → logging → recovery → mux.
	var handler http.Handler = mux
	handler = recoveryMiddleware(cfg.Logger, handler)
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = tracingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s.handler = handler
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "iterable-mcp",
		"version":     s.version,
		"description": "MCP server exposing the Iterable API as permission-gated tools",
		"endpoints": map[string]string{
			"mcp": "/mcp",
			"sse": "/sse",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
