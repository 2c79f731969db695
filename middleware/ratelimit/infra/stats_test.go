package infra

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"document-gateway/middleware/ratelimit/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStatsStore_CountsByRouteAndKey(t *testing.T) {
	s := NewMemoryStatsStore(WithTrackKeys(true))
	ctx := context.Background()

	_ = s.Record(ctx, domain.StatsEvent{Key: "a", Allowed: true, Method: "POST", Path: "/x", At: t0})
	_ = s.Record(ctx, domain.StatsEvent{Key: "a", Allowed: false, Method: "POST", Path: "/x", At: t0.Add(time.Second)})
	_ = s.Record(ctx, domain.StatsEvent{Key: "b", Allowed: false, Method: "GET", Path: "/y", At: t0})

	snap := s.Snapshot()
	if snap.Total != (Counters{Admitted: 1, Denied: 2}) {
		t.Fatalf("unexpected total: %+v", snap.Total)
	}
	if got := snap.ByRoute["POST /x"]; got != (Counters{Admitted: 1, Denied: 1}) {
		t.Fatalf("unexpected POST /x counters: %+v", got)
	}
	if got := snap.ByKey["b"]; got != (Counters{Denied: 1}) {
		t.Fatalf("unexpected key b counters: %+v", got)
	}
	if !snap.LastDenied.Equal(t0.Add(time.Second)) {
		t.Fatalf("expected last denial at %s, got %s", t0.Add(time.Second), snap.LastDenied)
	}
}

func TestMemoryStatsStore_KeysNotTrackedByDefault(t *testing.T) {
	s := NewMemoryStatsStore()
	_ = s.Record(context.Background(), domain.StatsEvent{Key: "a", Allowed: true})
	if len(s.Snapshot().ByKey) != 0 {
		t.Fatalf("expected no per-key counters")
	}
}

func TestPrometheusStatsStore_IncrementsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := NewPrometheusStatsStore(reg)
	if err != nil {
		t.Fatalf("NewPrometheusStatsStore: %v", err)
	}
	ctx := context.Background()
	_ = s.Record(ctx, domain.StatsEvent{Allowed: true, Method: "POST", Path: "/p"})
	_ = s.Record(ctx, domain.StatsEvent{Allowed: false, Method: "POST", Path: "/p"})
	_ = s.Record(ctx, domain.StatsEvent{Allowed: false, Method: "POST", Path: "/p"})

	if got := testutil.ToFloat64(s.decisions.WithLabelValues("denied", "POST /p")); got != 2 {
		t.Fatalf("expected 2 denied, got %v", got)
	}
	if got := testutil.ToFloat64(s.decisions.WithLabelValues("admitted", "POST /p")); got != 1 {
		t.Fatalf("expected 1 admitted, got %v", got)
	}

	if _, err := NewPrometheusStatsStore(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

type failingStats struct{ err error }

func (f failingStats) Record(context.Context, domain.StatsEvent) error { return f.err }

func TestMultiStatsStore_FansOutAndJoinsErrors(t *testing.T) {
	mem := NewMemoryStatsStore()
	boom := errors.New("boom")

	s := NewMultiStatsStore(nil, failingStats{err: boom}, mem)
	err := s.Record(context.Background(), domain.StatsEvent{Allowed: true})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to contain boom, got %v", err)
	}
	if mem.Total().Admitted != 1 {
		t.Fatalf("expected memory store to still record")
	}
}

func TestNewMultiStatsStore_CollapsesTrivialCases(t *testing.T) {
	if s := NewMultiStatsStore(nil, nil); s != nil {
		t.Fatalf("expected nil store, got %T", s)
	}
	mem := NewMemoryStatsStore()
	if s := NewMultiStatsStore(mem); s != domain.StatsStore(mem) {
		t.Fatalf("expected single store returned as-is")
	}
}

func TestRedisStatsStore_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	prefix := "gate:test:" + time.Now().Format("150405.000000")
	s := NewRedisStatsStore(rdb, WithStatsPrefix(prefix), WithStatsTTL(time.Minute), WithStatsTrackKeys(true))
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
	})

	if err := s.Record(ctx, domain.StatsEvent{Key: "c1", Allowed: true, Method: "POST", Path: "/p", At: t0}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(ctx, domain.StatsEvent{Key: "c1", Allowed: false, Method: "POST", Path: "/p", At: t0}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	total, err := rdb.HGetAll(ctx, prefix+":total").Result()
	if err != nil {
		t.Fatalf("HGetAll: %v", err)
	}
	if total["admitted"] != "1" || total["denied"] != "1" {
		t.Fatalf("unexpected totals: %v", total)
	}
	minute, _ := rdb.HGet(ctx, prefix+":minute:202401151000", "denied").Result()
	if minute != "1" {
		t.Fatalf("expected minute bucket denied=1, got %q", minute)
	}
	route, _ := rdb.HGet(ctx, prefix+":route", "POST /p:admitted").Result()
	if route != "1" {
		t.Fatalf("expected route admitted=1, got %q", route)
	}
}
