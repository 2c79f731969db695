package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"document-gateway/middleware/ratelimit/domain"
)

type config struct {
	listenAddr   string
	metricsAddr  string
	maxBodyBytes int64

	rate        domain.Rate
	ratePolicy  domain.Policy
	rateEnabled bool
	keyHeader   string
	trustXFF    bool
	addHeaders  bool

	concurrencyMax     int
	concurrencyTimeout time.Duration

	docStore         string
	docMemoryMax     int64
	docRedisAddr     string
	docRedisPassword string
	docRedisDB       int
	docRedisPrefix   string
	docRedisTTL      time.Duration

	rateStatsEnabled       bool
	rateStatsRedisAddr     string
	rateStatsRedisPassword string
	rateStatsRedisDB       int
	rateStatsPrefix        string
	rateStatsTTL           time.Duration
	rateStatsBucket        string
	rateStatsTrackKeys     bool

	tracingEnabled bool

	logLevel  slog.Level
	logFormat string
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.metricsAddr = os.Getenv("METRICS_ADDR")
	cfg.maxBodyBytes = int64(getenvIntDefault("MAX_BODY_BYTES", 1<<20))

	cfg.rateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	limit, err := readLimit()
	if err != nil {
		return config{}, err
	}
	cfg.rate.Limit = limit
	window, err := readWindow()
	if err != nil {
		return config{}, err
	}
	cfg.rate.Window = window
	policy, err := domain.ParsePolicy(os.Getenv("RATE_POLICY"))
	if err != nil {
		return config{}, err
	}
	cfg.ratePolicy = policy
	cfg.keyHeader = os.Getenv("RATE_KEY_HEADER")
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 100)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.docStore = strings.ToLower(getenvDefault("DOC_STORE", "memory"))
	cfg.docMemoryMax = int64(getenvIntDefault("DOC_MEMORY_MAX", 10_000))
	cfg.docRedisAddr = os.Getenv("DOC_REDIS_ADDR")
	cfg.docRedisPassword = os.Getenv("DOC_REDIS_PASSWORD")
	cfg.docRedisDB = getenvIntDefault("DOC_REDIS_DB", 0)
	cfg.docRedisPrefix = getenvDefault("DOC_REDIS_PREFIX", "documents")
	cfg.docRedisTTL = getenvDurationDefault("DOC_REDIS_TTL", 0)

	cfg.rateStatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.rateStatsRedisAddr = os.Getenv("RATE_STATS_REDIS_ADDR")
	cfg.rateStatsRedisPassword = os.Getenv("RATE_STATS_REDIS_PASSWORD")
	cfg.rateStatsRedisDB = getenvIntDefault("RATE_STATS_REDIS_DB", 0)
	cfg.rateStatsPrefix = getenvDefault("RATE_STATS_PREFIX", "gate:stats")
	cfg.rateStatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.rateStatsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")
	cfg.rateStatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	cfg.tracingEnabled = getenvBoolDefault("TRACING_ENABLED", false)

	if err := cfg.logLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.logFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "text"))

	// limite inválido é erro de configuração fatal, igual à construção do gate
	if err := cfg.rate.Validate(); err != nil {
		return config{}, err
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	switch cfg.docStore {
	case "memory":
	case "redis":
		if strings.TrimSpace(cfg.docRedisAddr) == "" {
			return config{}, errors.New("DOC_REDIS_ADDR is required when DOC_STORE=redis")
		}
	default:
		return config{}, fmt.Errorf("DOC_STORE must be memory or redis, got %q", cfg.docStore)
	}
	if cfg.rateStatsEnabled && strings.TrimSpace(cfg.rateStatsRedisAddr) == "" {
		return config{}, errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	if cfg.logFormat != "text" && cfg.logFormat != "json" {
		return config{}, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.logFormat)
	}
	return cfg, nil
}

// readLimit não cai no default quando o valor existe mas não é inteiro:
// um limite digitado errado deve impedir a subida.
func readLimit() (int, error) {
	v := strings.TrimSpace(os.Getenv("RATE_LIMIT"))
	if v == "" {
		return 10, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &domain.ConfigError{Field: "limit", Reason: fmt.Sprintf("RATE_LIMIT %q is not an integer", v)}
	}
	return n, nil
}

// readWindow: RATE_WINDOW (duração) tem precedência sobre RATE_TIME_UNIT.
func readWindow() (time.Duration, error) {
	if v := os.Getenv("RATE_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("RATE_WINDOW: %w", err)
		}
		return d, nil
	}
	return domain.ParseTimeUnit(getenvDefault("RATE_TIME_UNIT", "SECONDS"))
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
