// Package server wires the router, middleware and handlers together and runs
// the HTTP server.
//
// COMPOSITION ROOT:
// main.go builds the outside-world clients (bookmark store, Reddit, Gemini,
// token verifier) and hands them over as Deps. New builds services from those,
// handlers from the services, and mounts the handlers on routes. Nothing below
// this package constructs its own dependencies.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/trendfinder/internal/auth"
	"github.com/sakif/trendfinder/internal/handler"
	"github.com/sakif/trendfinder/internal/middleware"
	"github.com/sakif/trendfinder/internal/repository"
	"github.com/sakif/trendfinder/internal/service"
)

type Config struct {
	Port int
	// Store names the bookmark backend, for the startup log line only.
	Store string
}

// Deps are the clients main.go built.
type Deps struct {
	Bookmarks repository.BookmarkRepository
	Trending  service.TrendingSource
	Ideas     service.IdeaGenerator
	Verifier  *auth.Verifier

	// Closer, if set, is closed after the server stops (e.g. the SQLite file).
	Closer io.Closer
}

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	closer io.Closer
}

func New(cfg Config, logger *slog.Logger, deps Deps) (*Server, error) {
	switch {
	case deps.Bookmarks == nil:
		return nil, errors.New("server: bookmark store is required")
	case deps.Trending == nil:
		return nil, errors.New("server: trending source is required")
	case deps.Ideas == nil:
		return nil, errors.New("server: idea generator is required")
	case deps.Verifier == nil:
		return nil, errors.New("server: token verifier is required")
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		closer: deps.Closer,
	}
	s.setupRoutes(deps)
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /                        → banner                  (public)
// GET    /healthz                 → liveness                (public)
// GET    /protected               → echo verified identity
// GET    /trending?subreddit=     → hot posts + bookmark flags
// POST   /generate_idea           → content idea for a title
// POST   /bookmark                → create bookmark
// GET    /get_bookmarks           → list caller's bookmarks
// DELETE /bookmark/{id}           → delete bookmark
// PATCH  /bookmark/{id}/update    → partial update
//
// Trailing slashes are stripped first, so "/bookmark/" and "/bookmark" are
// the same route.
//
// MIDDLEWARE ORDER:
//  1. StripSlashes: normalise the path before routing
//  2. RequestID: must precede Logger, which prints it
//  3. RealIP
//  4. Logger
//  5. Recoverer: a panic answers 500 instead of killing the process
//
// RequireAuth is mounted on the protected group only.
func (s *Server) setupRoutes(deps Deps) {
	s.router.Use(chimiddleware.StripSlashes)
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	bookmarkService := service.NewBookmarkService(deps.Bookmarks, s.logger)
	trendingService := service.NewTrendingService(deps.Bookmarks, deps.Trending, s.logger)
	ideaService := service.NewIdeaService(deps.Ideas, s.logger)

	rootHandler := handler.NewRootHandler(s.logger)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkService, s.logger)
	trendingHandler := handler.NewTrendingHandler(trendingService, s.logger)
	ideaHandler := handler.NewIdeaHandler(ideaService, s.logger)

	// === Public ===
	s.router.Get("/", rootHandler.HandleRoot)
	s.router.Get("/healthz", rootHandler.HandleHealth)

	// === Protected ===
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.Verifier, s.logger))

		r.Get("/protected", rootHandler.HandleProtected)
		r.Get("/trending", trendingHandler.HandleTrending)
		r.Post("/generate_idea", ideaHandler.HandleGenerate)

		r.Post("/bookmark", bookmarkHandler.HandleCreate)
		r.Get("/get_bookmarks", bookmarkHandler.HandleList)
		r.Delete("/bookmark/{id}", bookmarkHandler.HandleDelete)
		r.Patch("/bookmark/{id}/update", bookmarkHandler.HandleUpdate)
	})
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight requests
// for up to 30 seconds and closes the bookmark store.
func (s *Server) Start() error {
	if s.closer != nil {
		defer func() {
			if err := s.closer.Close(); err != nil {
				s.logger.Error("closing bookmark store", slog.String("error", err.Error()))
			}
		}()
	}

	// WriteTimeout leaves room for a slow model answer behind a 15s upstream timeout.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("store", s.config.Store),
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
