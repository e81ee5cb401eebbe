package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hongminglow/care-admin/internal/auth"
	"github.com/hongminglow/care-admin/internal/config"
	"github.com/hongminglow/care-admin/internal/http/handlers"
	"github.com/hongminglow/care-admin/internal/middleware"
	"github.com/hongminglow/care-admin/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.UserStore, logger *zap.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the routed handler. Split out so tests can drive it with httptest.
func NewHandler(cfg config.Config, store storage.UserStore, logger *zap.Logger) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authMW := middleware.NewAuth(tokens, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestSize(1 << 20))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(authMW.Authenticate)

	var pinger handlers.Pinger
	if p, ok := store.(handlers.Pinger); ok {
		pinger = p
	}
	handlers.NewHealthHandler(time.Now(), pinger).Register(r)
	handlers.NewAuthHandler(store, tokens, cfg.DefaultRole, logger).Register(r, authMW)
	handlers.NewAccessHandler(store, logger).Register(r, authMW)
	handlers.NewUsersHandler(store, logger).Register(r, authMW)

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
