// Package main implements the carhub API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/WessleyAI/carhub/engine/activity"
	"github.com/WessleyAI/carhub/engine/catalog"
	"github.com/WessleyAI/carhub/engine/remote"
	"github.com/WessleyAI/carhub/engine/similar"
	"github.com/WessleyAI/carhub/pkg/fn"
	"github.com/WessleyAI/carhub/pkg/metrics"
	"github.com/WessleyAI/carhub/pkg/mid"
	"github.com/WessleyAI/carhub/pkg/natsutil"
)

// Config holds all environment-based configuration.
type Config struct {
	Port             string
	Backend          string
	CarsDB           string
	Neo4jURL         string
	Neo4jUser        string
	Neo4jPass        string
	NATSURL          string
	QdrantURL        string
	QdrantCollection string
	CORSOrigin       string
	RateLimitRPS     float64
}

func loadConfig() Config {
	rps, err := strconv.ParseFloat(envOr("RATE_LIMIT_RPS", "20"), 64)
	if err != nil {
		rps = 20
	}
	return Config{
		Port:             envOr("PORT", "8080"),
		Backend:          envOr("REMOTE_BACKEND", "sql"),
		CarsDB:           envOr("CARS_DB", "data/cars.db"),
		Neo4jURL:         envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser:        envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:        envOr("NEO4J_PASS", "password"),
		NATSURL:          os.Getenv("NATS_URL"),
		QdrantURL:        os.Getenv("QDRANT_URL"),
		QdrantCollection: envOr("QDRANT_COLLECTION", similar.DefaultCollection),
		CORSOrigin:       envOr("CORS_ORIGIN", "*"),
		RateLimitRPS:     rps,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

// openRemote selects the remote store. The returned closer is never nil.
func openRemote(ctx context.Context, cfg Config) (remote.Source, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case "sql":
		src, err := remote.OpenSQLite(cfg.CarsDB)
		if err != nil {
			return nil, noop, err
		}
		return src, src.Close, nil
	case "neo4j":
		src, err := remote.OpenNeo4j(ctx, cfg.Neo4jURL, cfg.Neo4jUser, cfg.Neo4jPass)
		if err != nil {
			return nil, noop, err
		}
		return src, func() error { return src.Close(context.Background()) }, nil
	case "none", "":
		return remote.Disabled{}, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown REMOTE_BACKEND %q", cfg.Backend)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.New()

	// --- Remote store ---
	src, closeSrc, err := openRemote(ctx, cfg)
	if err != nil {
		// The catalog still serves static data without a remote store.
		logger.Warn("remote store unavailable, serving static catalog", "backend", cfg.Backend, "err", err)
		src = remote.Disabled{}
	}
	defer closeSrc()

	cat := catalog.New(src, catalog.WithLogger(logger), catalog.WithMetrics(reg))

	// --- NATS activity pipeline ---
	var nc *nats.Conn
	rec := activity.NewRecorder()
	if cfg.NATSURL != "" {
		nc, err = natsutil.Connect(cfg.NATSURL, "carhub-api", logger)
		if err != nil {
			logger.Warn("nats unavailable, activity recorded locally", "err", err)
		} else {
			defer nc.Drain()
			if _, err := rec.Attach(nc); err != nil {
				return fmt.Errorf("subscribe activity: %w", err)
			}
			if _, err := rec.ServeStats(nc); err != nil {
				return fmt.Errorf("serve activity stats: %w", err)
			}
		}
	}
	tracker := activity.NewTracker(nc, activity.DefaultTrackerOpts, logger, reg)

	// --- Qdrant similar-car index ---
	var finder similarFinder
	if cfg.QdrantURL != "" {
		ix, err := similar.New(cfg.QdrantURL, cfg.QdrantCollection, logger)
		if err != nil {
			logger.Warn("qdrant unavailable, similar cars disabled", "err", err)
		} else {
			defer ix.Close()
			finder = ix
			go buildIndex(ctx, ix, cat, logger)
		}
	}

	s := &server{
		catalog:  cat,
		similar:  finder,
		tracker:  tracker,
		recorder: rec,
		metrics:  reg,
		logger:   logger,
	}

	handler := mid.Chain(s.routes(),
		mid.Recover(logger),
		mid.OTel("carhub-api"),
		mid.Logger(logger, reg),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(cfg.RateLimitRPS, 0),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "backend", cfg.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// buildIndex loads the resolved catalog into the similar-car index. Failure
// only disables similar-car results.
func buildIndex(ctx context.Context, ix *similar.Index, cat *catalog.Service, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	// Qdrant often starts alongside the API.
	_, err := fn.Retry(ctx, fn.DefaultRetry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, ix.EnsureCollection(ctx)
	})
	if err != nil {
		logger.Warn("similar index unavailable", "err", err)
		return
	}
	cars := cat.FetchAll(ctx).Value()
	if err := ix.Index(ctx, cars); err != nil {
		logger.Warn("similar index build failed", "err", err)
		return
	}
	logger.Info("similar index built", "cars", len(cars))
}
