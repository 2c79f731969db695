package main

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

	docapp "document-gateway/documents/application"
	docinfra "document-gateway/documents/infra"
	"document-gateway/middleware/ratelimit/domain"
	"document-gateway/middleware/ratelimit/infra"
	"document-gateway/middleware/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("gateway stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.logLevel}
	if cfg.logFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func run(cfg config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ConfigError aqui impede a subida
	gate, err := infra.NewGate(cfg.ratePolicy, cfg.rate)
	if err != nil {
		return fmt.Errorf("rate gate: %w", err)
	}

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	repo, closeRepo, err := newRepository(ctx, cfg)
	if err != nil {
		return err
	}
	closers = append(closers, closeRepo)

	stats, closeStats, err := newStats(ctx, cfg, logger)
	if err != nil {
		return err
	}
	closers = append(closers, closeStats)

	var tracingCfg *tracing.Config
	if cfg.tracingEnabled {
		var shutdown func()
		tracingCfg, shutdown, err = newTracing()
		if err != nil {
			return err
		}
		closers = append(closers, shutdown)
	}

	srv := &http.Server{
		Addr: cfg.listenAddr,
		Handler: newHandler(cfg, deps{
			gate:    gate,
			stats:   stats,
			repo:    repo,
			tracing: tracingCfg,
			logger:  logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	var metricsSrv *http.Server
	if cfg.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
	}()

	logger.Info("gateway listening", "addr", cfg.listenAddr, "metrics_addr", cfg.metricsAddr)
	logger.Info("rate gate",
		"enabled", cfg.rateEnabled,
		"policy", cfg.ratePolicy,
		"limit", cfg.rate.Limit,
		"window", cfg.rate.Window,
		"min_interval", cfg.rate.MinInterval(),
	)
	logger.Info("document store", "kind", cfg.docStore, "tracing", cfg.tracingEnabled)
	logger.Info("concurrency", "max", cfg.concurrencyMax, "acquire_timeout", cfg.concurrencyTimeout)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func newRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func newRepository(ctx context.Context, cfg config) (docapp.Repository, func(), error) {
	if cfg.docStore == "redis" {
		rdb, err := newRedisClient(ctx, cfg.docRedisAddr, cfg.docRedisPassword, cfg.docRedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("document store: %w", err)
		}
		repo := docinfra.NewRedisRepository(rdb,
			docinfra.WithPrefix(cfg.docRedisPrefix),
			docinfra.WithTTL(cfg.docRedisTTL),
		)
		return repo, func() { _ = rdb.Close() }, nil
	}

	repo, err := docinfra.NewMemoryRepository(cfg.docMemoryMax)
	if err != nil {
		return nil, nil, fmt.Errorf("document store: %w", err)
	}
	return repo, repo.Close, nil
}

func newStats(ctx context.Context, cfg config, logger *slog.Logger) (domain.StatsStore, func(), error) {
	var stores []domain.StatsStore
	closeFn := func() {}

	if cfg.metricsAddr != "" {
		prom, err := infra.NewPrometheusStatsStore(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, nil, fmt.Errorf("prometheus stats: %w", err)
		}
		stores = append(stores, prom)
	}

	if cfg.rateStatsEnabled {
		rdb, err := newRedisClient(ctx, cfg.rateStatsRedisAddr, cfg.rateStatsRedisPassword, cfg.rateStatsRedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("rate stats: %w", err)
		}
		closeFn = func() { _ = rdb.Close() }
		stores = append(stores, infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.rateStatsPrefix),
			infra.WithStatsTTL(cfg.rateStatsTTL),
			infra.WithStatsBucket(cfg.rateStatsBucket),
			infra.WithStatsTrackKeys(cfg.rateStatsTrackKeys),
		))
	}

	// sem Prometheus nem Redis os contadores ficam em memória e saem no log
	// ao desligar
	if len(stores) == 0 {
		mem := infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.rateStatsTrackKeys))
		return mem, func() { logStatsSnapshot(logger, mem.Snapshot()) }, nil
	}

	return infra.NewMultiStatsStore(stores...), closeFn, nil
}

func logStatsSnapshot(logger *slog.Logger, snap infra.StatsSnapshot) {
	attrs := []any{
		"admitted", snap.Total.Admitted,
		"denied", snap.Total.Denied,
	}
	if !snap.LastDenied.IsZero() {
		attrs = append(attrs, "last_denied", snap.LastDenied)
	}
	for route, c := range snap.ByRoute {
		attrs = append(attrs, slog.Group(route, "admitted", c.Admitted, "denied", c.Denied))
	}
	logger.Info("rate gate totals", attrs...)
}

func newTracing() (*tracing.Config, func(), error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
	if err != nil {
		return nil, nil, fmt.Errorf("stdout trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	props := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(props)

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}
	return &tracing.Config{TracerProvider: tp, Propagators: props}, shutdown, nil
}
