package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/journal-api/internal/config"
	"github.com/janisto/journal-api/internal/http/health"
	"github.com/janisto/journal-api/internal/http/v1/routes"
	"github.com/janisto/journal-api/internal/platform/firebase"
	applog "github.com/janisto/journal-api/internal/platform/logging"
	"github.com/janisto/journal-api/internal/platform/metrics"
	appmiddleware "github.com/janisto/journal-api/internal/platform/middleware"
	"github.com/janisto/journal-api/internal/platform/postgres"
	"github.com/janisto/journal-api/internal/platform/respond"
	journalsvc "github.com/janisto/journal-api/internal/service/journal"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const docsPath = "/api-docs"

func main() {
	ctx := context.Background()
	if err := applog.Init(); err != nil {
		applog.LogError(ctx, "logger init error", err)
	}
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(ctx, "logger sync error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	if err := run(ctx, stop); err != nil {
		applog.LogFatal(ctx, "server failed", err)
	}
	applog.LogInfo(ctx, "server exited")
}

// run logs the startup line, loads config, opens the store and serves until stop fires.
func run(ctx context.Context, stop <-chan os.Signal) error {
	logStartup(ctx)

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage %s: %w", cfg.StorageBackend, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			applog.LogError(ctx, "storage close error", err)
		}
	}()

	m := metrics.New()
	if err := m.Register(metrics.NewEntriesCollector(store)); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	router, _ := newRouter(cfg, store, m)
	return serve(ctx, newServer(cfg.Port, router), stop, cfg.ShutdownTimeout)
}

func logStartup(ctx context.Context) {
	applog.LogInfo(ctx, "journal api system initializing", zap.String("version", Version))
}

// openStore builds the entry store selected by cfg.StorageBackend.
func openStore(ctx context.Context, cfg *config.Config) (journalsvc.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return journalsvc.NewMemoryStore(), nil
	case config.BackendFirestore:
		client, err := firebase.NewFirestore(ctx, firebase.Config{
			ProjectID:                    cfg.Firebase.ProjectID,
			GoogleApplicationCredentials: cfg.Firebase.CredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		return journalsvc.NewFirestoreStore(client), nil
	case config.BackendPostgres:
		pool, err := postgres.Open(ctx, postgres.Config{
			URL:             cfg.Postgres.URL,
			MaxConns:        cfg.Postgres.MaxConns,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
		})
		if err != nil {
			return nil, err
		}
		store, err := journalsvc.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func newRouter(cfg *config.Config, store journalsvc.Store, m *metrics.Metrics) (chi.Router, huma.API) {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security(docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.CORSAllowedOrigins...),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// SECURITY: Only use behind a trusted reverse proxy (e.g., Cloud Run, nginx).
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger(),
		m.Middleware(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler)
	router.Get("/ready", health.Ready(store))
	router.Method(http.MethodGet, "/metrics", m.Handler())

	humaCfg := huma.DefaultConfig("Journal API", Version)
	humaCfg.Info.Description = "A simple journal API for tracking daily work, struggles, and intentions"
	humaCfg.DocsPath = docsPath
	// No schema-link transformer: bodies carry no "$schema" and responses no describedBy Link.
	humaCfg.CreateHooks = nil
	// Huma falls back to JSON for Accept headers it cannot satisfy (RFC 9110 section 12.4.1).
	api := humachi.New(router, humaCfg)
	addCBORContentTypes(api)

	routes.Register(api, journalsvc.NewAudited(store))
	return router, api
}

// addCBORContentTypes advertises CBOR alongside JSON for every operation in the OpenAPI document.
func addCBORContentTypes(api huma.API) {
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			if op.RequestBody != nil && op.RequestBody.Content != nil {
				if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
					op.RequestBody.Content["application/cbor"] = jsonContent
				}
			}
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}

// serve runs srv until stop fires, then shuts it down within timeout. A listen
// failure is returned immediately.
func serve(ctx context.Context, srv *http.Server, stop <-chan os.Signal, timeout time.Duration) error {
	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	case <-stop:
		applog.LogInfo(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
