// Package config reads the server's settings from the environment.
//
// Values are read once at startup. A .env file in the working directory is
// loaded first when present, so local development doesn't need exported
// variables; real environment variables always win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Bookmark store backends.
const (
	StorePostgREST = "postgrest"
	StoreSQLite    = "sqlite"
)

type Config struct {
	Port     int
	LogLevel slog.Level

	JWTSecret   string
	JWTAudience string

	Store       string
	SupabaseURL string
	SupabaseKey string
	DBPath      string

	Reddit Reddit

	GeminiAPIKey string
	GeminiModel  string

	// UpstreamTimeout bounds every outbound HTTP call.
	UpstreamTimeout time.Duration
}

type Reddit struct {
	ClientID  string
	Secret    string
	UserAgent string
}

// LoadDotEnv loads .env if it exists. A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: loading .env: %w", err)
	}
	return nil
}

func Load() Config {
	return Config{
		Port:     envInt("PORT", 8000),
		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),

		JWTSecret:   envString("SUPABASE_JWT_SECRET", ""),
		JWTAudience: envString("SUPABASE_JWT_AUDIENCE", "authenticated"),

		Store:       strings.ToLower(envString("BOOKMARK_STORE", StorePostgREST)),
		SupabaseURL: envString("SUPABASE_URL", ""),
		SupabaseKey: envString("SUPABASE_SERVICE_ROLE_KEY", ""),
		DBPath:      envString("BOOKMARK_DB_PATH", "data/bookmarks.db"),

		Reddit: Reddit{
			ClientID:  envString("REDDIT_CLIENT_ID", ""),
			Secret:    envString("REDDIT_SECRET", ""),
			UserAgent: envString("REDDIT_USER_AGENT", ""),
		},

		GeminiAPIKey: envString("GEMINI_API_KEY", ""),
		GeminiModel:  envString("GEMINI_MODEL", "gemini-1.5-flash"),

		UpstreamTimeout: envDuration("UPSTREAM_TIMEOUT", 15*time.Second),
	}
}

// Validate reports every missing or inconsistent value at once, so a
// misconfigured deployment fails with one complete message.
func (c Config) Validate() error {
	var errs []error
	require := func(name, value string) {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	require("SUPABASE_JWT_SECRET", c.JWTSecret)

	switch c.Store {
	case StorePostgREST:
		require("SUPABASE_URL", c.SupabaseURL)
		require("SUPABASE_SERVICE_ROLE_KEY", c.SupabaseKey)
	case StoreSQLite:
		require("BOOKMARK_DB_PATH", c.DBPath)
	default:
		errs = append(errs, fmt.Errorf("BOOKMARK_STORE must be %q or %q, got %q", StorePostgREST, StoreSQLite, c.Store))
	}

	require("REDDIT_CLIENT_ID", c.Reddit.ClientID)
	require("REDDIT_SECRET", c.Reddit.Secret)
	require("REDDIT_USER_AGENT", c.Reddit.UserAgent)
	require("GEMINI_API_KEY", c.GeminiAPIKey)

	return errors.Join(errs...)
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// envLevel accepts debug, info, warn or error (any case).
func envLevel(key string, def slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return def
}
