// Package server wires handlers, middleware and routes, and runs the HTTP
// server.
//
// COMPOSITION ROOT:
// Every dependency is assembled here, in one place:
//
//	Store → JobService  → JobHandler
//	      → AuthService → AuthHandler
//	Credentials (bcrypt + JWT) → AuthService, RequireAuth
//
// Each layer receives only interfaces it needs. Handlers never see the store,
// services never see HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/jobs-api/internal/auth"
	"github.com/sakif/jobs-api/internal/config"
	"github.com/sakif/jobs-api/internal/handler"
	"github.com/sakif/jobs-api/internal/httpx"
	"github.com/sakif/jobs-api/internal/middleware"
	"github.com/sakif/jobs-api/internal/repository"
	"github.com/sakif/jobs-api/internal/service"
)

// Server is the HTTP server plus the store it owns.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	store  repository.Store
}

// Option tweaks how New builds the server.
type Option func(*options)

type options struct {
	passwords *auth.PasswordService
	github    handler.GitHubAuthenticator
}

// WithPasswordService replaces the production bcrypt cost; tests pass a
// cheap one.
func WithPasswordService(p *auth.PasswordService) Option {
	return func(o *options) { o.passwords = p }
}

// WithGitHub overrides the GitHub authenticator built from config.
func WithGitHub(g handler.GitHubAuthenticator) Option {
	return func(o *options) { o.github = g }
}

// New builds the server around an already opened store. The server takes
// ownership of the store and closes it when Start returns.
func New(cfg config.Config, store repository.Store, logger *slog.Logger, opts ...Option) (*Server, error) {
	o := options{passwords: auth.NewPasswordService()}
	if cfg.GitHubEnabled() {
		o.github = auth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubCallbackURL)
	}
	for _, opt := range opts {
		opt(&o)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTLifetime)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	creds := auth.NewCredentials(o.passwords, tokens)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	s.setupRoutes(creds, o.github)
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and routes.
//
// ROUTE STRUCTURE:
//
//	GET    /ping                         → heartbeat
//	POST   /api/v1/auth/register         → create account
//	POST   /api/v1/auth/login            → issue token
//	GET    /api/v1/auth/me               → current user        [auth]
//	GET    /api/v1/auth/github/login     → GitHub redirect     (if configured)
//	GET    /api/v1/auth/github/callback  → GitHub sign-in      (if configured)
//	GET    /api/v1/jobs                  → list                [auth]
//	POST   /api/v1/jobs                  → create              [auth]
//	GET    /api/v1/jobs/{id}             → get one             [auth]
//	PATCH  /api/v1/jobs/{id}             → update              [auth]
//	DELETE /api/v1/jobs/{id}             → delete              [auth]
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so every later log line can carry the id; Recoverer
// sits inside the logger so a panic is still logged as a 500.
func (s *Server) setupRoutes(creds *auth.Credentials, github handler.GitHubAuthenticator) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(s.config.RequestTimeout))
	s.router.Use(chimiddleware.SetHeader("X-Content-Type-Options", "nosniff"))
	s.router.Use(chimiddleware.Heartbeat("/ping"))

	// Set before any Route/Mount call: sub-routers inherit these.
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusNotFound, httpx.ErrorResponse{Msg: "Route does not exist"})
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusMethodNotAllowed, httpx.ErrorResponse{Msg: "Method not allowed"})
	})

	requireAuth := auth.RequireAuth(creds, s.logger)

	authService := service.NewAuthService(s.store, creds, s.logger)
	jobService := service.NewJobService(s.store, s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	jobHandler := handler.NewJobHandler(jobService, s.logger)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authHandler.Routes(r, requireAuth)
		})
		r.Route("/jobs", func(r chi.Router) {
			r.Use(requireAuth)
			jobHandler.Routes(r)
		})
	})
}

// Start serves until SIGINT/SIGTERM, drains in-flight requests for up to
// 30 seconds, then closes the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         s.config.HTTPAddress(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("driver", s.config.DBDriver),
			slog.Bool("github", s.config.GitHubEnabled()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
