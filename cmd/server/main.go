// Command server runs the TrendFinder API.
//
// main only does wiring:
//  1. load configuration (.env first, then the environment)
//  2. build the logger
//  3. build the outside-world clients: bookmark store, Reddit, Gemini, token verifier
//  4. hand them to server.New and block in Start
//
// Everything else lives under internal/.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"google.golang.org/genai"

	"github.com/sakif/trendfinder/internal/auth"
	"github.com/sakif/trendfinder/internal/config"
	"github.com/sakif/trendfinder/internal/idea"
	"github.com/sakif/trendfinder/internal/reddit"
	"github.com/sakif/trendfinder/internal/repository"
	"github.com/sakif/trendfinder/internal/repository/postgrest"
	"github.com/sakif/trendfinder/internal/repository/sqlite"
	"github.com/sakif/trendfinder/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// === 1. CONFIGURATION ===
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg := config.Load()

	// === 2. LOGGING ===
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	// Long-lived context for clients that refresh tokens in the background.
	ctx := context.Background()

	// === 3. CLIENTS ===
	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience)
	if err != nil {
		return err
	}

	bookmarks, closer, err := openStore(cfg)
	if err != nil {
		return err
	}

	trending, err := reddit.New(ctx, reddit.Config{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.Secret,
		UserAgent:    cfg.Reddit.UserAgent,
		Timeout:      cfg.UpstreamTimeout,
	})
	if err != nil {
		return closeOnError(closer, err)
	}

	ideas, err := idea.NewWithConfig(ctx, &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.UpstreamTimeout},
	}, cfg.GeminiModel)
	if err != nil {
		return closeOnError(closer, err)
	}

	// === 4. SERVER ===
	srv, err := server.New(server.Config{Port: cfg.Port, Store: cfg.Store}, logger, server.Deps{
		Bookmarks: bookmarks,
		Trending:  trending,
		Ideas:     ideas,
		Verifier:  verifier,
		Closer:    closer,
	})
	if err != nil {
		return closeOnError(closer, err)
	}

	// Start blocks until SIGINT/SIGTERM and closes the store on the way out.
	return srv.Start()
}

// openStore builds the configured bookmark backend. The returned closer is
// nil for the remote store, which holds no resources of its own.
func openStore(cfg config.Config) (repository.BookmarkRepository, io.Closer, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		// os.MkdirAll is `mkdir -p`; the data directory may not exist yet.
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil

	default:
		client, err := postgrest.New(cfg.SupabaseURL, cfg.SupabaseKey, &http.Client{Timeout: cfg.UpstreamTimeout})
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	}
}

func closeOnError(c io.Closer, err error) error {
	if c != nil {
		c.Close()
	}
	return err
}
