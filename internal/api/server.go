// Package api exposes the question answering pipeline and the chat
// history store over a JSON HTTP API.
package api

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nourai/nourai/internal/chat"
	"github.com/nourai/nourai/internal/log"
	"github.com/nourai/nourai/internal/rag"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      log.Logger
	Engine      *rag.Engine   // Required
	ChatStore   *chat.Store   // Optional: nil disables chat endpoints and persistence
	Pool        *pgxpool.Pool // Optional: nil disables pool stats in /ready
	CORSOrigins []string      // Allowed origins for CORS
	TrustProxy  bool          // Trust X-Real-IP/X-Forwarded-For headers
	RateBurst   int           // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Engine == nil {
		return nil, errors.New("rag engine is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	mux := http.NewServeMux()

	qh := &queryHandler{engine: cfg.Engine, chats: cfg.ChatStore, logger: logger}
	mux.HandleFunc("POST /api/query", qh.answer)

	if cfg.ChatStore != nil {
		ch := &chatHandler{store: cfg.ChatStore, logger: logger}
		mux.HandleFunc("GET /api/chats", ch.list)
		mux.HandleFunc("POST /api/chats", ch.create)
		mux.HandleFunc("GET /api/chats/{id}", ch.get)
		mux.HandleFunc("GET /api/chats/{id}/messages", ch.messages)
		mux.HandleFunc("PATCH /api/chats/{id}", ch.updateTitle)
		mux.HandleFunc("DELETE /api/chats/{id}", ch.delete)
	}

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Middleware stack, outermost first:
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID runs before Logging so the request_id attribute is set,
	// and CORS before RateLimit so preflight OPTIONS always carries CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probes bypass the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health(logger))
	topMux.Handle("GET /ready", readiness(cfg.Pool, logger))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
