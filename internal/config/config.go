package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	applog "github.com/janisto/journal-api/internal/platform/logging"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port               string
	StorageBackend     string
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string

	Firebase FirebaseConfig
	Postgres PostgresConfig
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

type PostgresConfig struct {
	URL      string
	MaxConns int32
}

// Load reads an optional .env file, then the process environment, and validates the result.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		applog.LogWarn(ctx, ".env load warning", zap.Error(err))
	}

	maxConns, err := getEnvInt32("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		StorageBackend:     strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
		ShutdownTimeout:    shutdownTimeout,
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		},
		Postgres: PostgresConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: maxConns,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	applog.LogInfo(ctx, "config loaded",
		zap.String("port", cfg.Port),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
	)
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	switch c.StorageBackend {
	case BackendMemory:
	case BackendFirestore:
		if c.Firebase.ProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID required for firestore backend")
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return errors.New("DATABASE_URL required for postgres backend")
		}
		if c.Postgres.MaxConns < 1 {
			return errors.New("DB_MAX_CONNS must be at least 1")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt32 parses key as a 32-bit integer. Unset uses def; anything unparsable is an error.
func getEnvInt32(key string, def int32) (int32, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be a 32-bit integer, got %q", key, v)
	}
	return int32(n), nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 10s, got %q", key, v)
	}
	return d, nil
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
