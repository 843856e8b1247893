package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	"github.com/movieflix/movieflix/internal/api"
	"github.com/movieflix/movieflix/internal/config"
	"github.com/movieflix/movieflix/internal/metrics"
	"github.com/movieflix/movieflix/internal/migrations"
	"github.com/movieflix/movieflix/internal/movies"
	"github.com/movieflix/movieflix/internal/omdb"
	"github.com/movieflix/movieflix/internal/store"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// === Stores ===
	movieStore := store.New(db)

	// === Clients ===
	omdbOpts := []omdb.Option{omdb.WithLogger(logger.With("component", "omdb"))}
	if cfg.OMDb.BaseURL != "" {
		omdbOpts = append(omdbOpts, omdb.WithBaseURL(cfg.OMDb.BaseURL))
	}
	omdbClient := omdb.New(cfg.OMDb.APIKey, omdbOpts...)

	// === Metrics ===
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	// === Services ===
	movieService := movies.NewService(movieStore, omdbClient, movies.Config{
		CacheEnabled:     cfg.CacheEnabled(),
		TTL:              cfg.Cache.TTL(),
		MaxExportRecords: cfg.Export.MaxRecords,
	}, logger.With("component", "movies"), appMetrics)

	// === Background Jobs ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.CacheEnabled() {
		go runPruner(ctx, movieStore, cfg.Cache.PruneInterval(), logger.With("component", "pruner"))
	}

	// === HTTP Setup ===
	mux := http.NewServeMux()

	apiServer := api.New(movieService, api.Config{
		AdminKey:     cfg.Server.AdminKey,
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}, logger.With("component", "api"))
	apiServer.RegisterRoutes(mux)

	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"cache_enabled", cfg.CacheEnabled(),
		"cache_ttl", cfg.Cache.TTL().String(),
		"log_level", cfg.Server.LogLevel,
	)

	srv := &http.Server{Addr: addr, Handler: logRequests(mux, logger)}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	// Cancel background jobs (this stops the pruner)
	cancel()

	// Graceful HTTP shutdown with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// runPruner periodically deletes expired cache rows. Reads already exclude
// expired entries, so pruning only reclaims space.
func runPruner(ctx context.Context, st *store.Store, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("pruner started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			log.Info("pruner stopped")
			return
		case <-ticker.C:
			n, err := st.Prune(ctx)
			if err != nil {
				log.Error("prune failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("pruned expired entries", "count", n)
			}
		}
	}
}
