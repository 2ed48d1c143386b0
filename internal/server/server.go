// Package server wires handlers, middleware, and routes, and owns the HTTP
// server lifecycle. It is the composition root: every dependency chain is
// assembled in New, and main.go only builds a Config and calls Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/bookshelf/internal/auth"
	"github.com/sakif/bookshelf/internal/catalog"
	"github.com/sakif/bookshelf/internal/collection"
	"github.com/sakif/bookshelf/internal/handler"
	"github.com/sakif/bookshelf/internal/library"
	"github.com/sakif/bookshelf/internal/middleware"
	sqliteRepo "github.com/sakif/bookshelf/internal/repository/sqlite"
	"github.com/sakif/bookshelf/internal/search"
	"github.com/sakif/bookshelf/internal/service"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port   int
	DBPath string

	// JWTSecret enables account features. When empty the server runs in
	// catalog-only mode: search and book detail work, everything that
	// needs a signed-in user answers 502 unavailable.
	JWTSecret string

	// Google OAuth is optional even when accounts are enabled.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// Catalog client settings. BooksAPIURL overrides the default Google
	// Books endpoint (tests point it at a local server); BooksAPIKey is
	// optional.
	BooksAPIURL string
	BooksAPIKey string

	// AggregatorConcurrency bounds the per-row catalog lookups when
	// building collections; 0 means unbounded.
	AggregatorConcurrency int
}

// Server owns the router and the resources that must be released on
// shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, repositories,
// services, handlers, routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router so tests can drive the server with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Catalog (always available) ===
	cat := catalog.NewGoogleBooks(s.config.BooksAPIURL, s.config.BooksAPIKey)
	controller := search.NewController(cat, search.DefaultPageSize)

	searchHandler := handler.NewSearchHandler(controller, s.logger)
	bookHandler := handler.NewBookHandler(cat, s.logger)

	s.router.Get("/api/search", searchHandler.Search)
	s.router.Get("/api/books/{id}", bookHandler.Detail)
	s.router.Get("/api/books/{id}/reader", bookHandler.Reader)

	// === Accounts and lists (need a JWT secret) ===
	if s.config.JWTSecret == "" {
		s.logger.Warn("JWT secret not configured, running in catalog-only mode")
		s.registerDegradedRoutes()
		return nil
	}

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	sessions := auth.NewSessionCell()

	authService := service.NewAuthService(s.db, tokens, passwords, sessions, s.logger)

	var google *auth.GoogleProvider
	if s.config.GoogleClientID != "" && s.config.GoogleClientSecret != "" {
		google = auth.NewGoogleProvider(
			s.config.GoogleClientID,
			s.config.GoogleClientSecret,
			s.config.GoogleCallbackURL,
		)
	} else {
		s.logger.Warn("Google OAuth not configured, google sign-in disabled")
	}

	authHandler := handler.NewAuthHandler(authService, google, s.logger)

	s.router.Post("/auth/register", authHandler.Register)
	s.router.Post("/auth/login", authHandler.Login)
	s.router.Post("/auth/logout", authHandler.Logout)
	if google != nil {
		s.router.Get("/auth/google/login", authHandler.GoogleLogin)
		s.router.Get("/auth/google/callback", authHandler.GoogleCallback)
	}

	aggregator := collection.NewAggregator(s.db, cat, s.config.AggregatorConcurrency, s.logger)
	libraryService := library.NewService(s.db, s.logger)
	libraryHandler := handler.NewLibraryHandler(aggregator, libraryService, s.logger)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/api/collections", libraryHandler.Collections)
		r.Post("/api/lists", libraryHandler.Add)
		r.Put("/api/lists/{bookId}", libraryHandler.Move)
		r.Get("/api/me", authHandler.Me)
	})

	return nil
}

// registerDegradedRoutes answers every account-dependent route with a clear
// unavailable error instead of a 404, so clients see a configuration
// problem rather than a missing feature.
func (s *Server) registerDegradedRoutes() {
	unavailable := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprintf(w, `{"error":%q,"message":%q}`,
			"unavailable", "account features are not configured on this server")
	}

	for _, path := range []string{
		"/auth/register", "/auth/login", "/auth/logout",
	} {
		s.router.Post(path, unavailable)
	}
	s.router.Get("/api/collections", unavailable)
	s.router.Post("/api/lists", unavailable)
	s.router.Put("/api/lists/{bookId}", unavailable)
	s.router.Get("/api/me", unavailable)
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully
// and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
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
