package infra

import (
	"context"
	"maps"
	"sync"
	"time"

	"document-gateway/middleware/ratelimit/domain"
)

type Counters struct {
	Admitted int64
	Denied   int64
}

func (c *Counters) add(admitted bool) {
	if admitted {
		c.Admitted++
		return
	}
	c.Denied++
}

// StatsSnapshot é uma cópia consistente do MemoryStatsStore.
type StatsSnapshot struct {
	Total      Counters
	ByRoute    map[string]Counters
	ByKey      map[string]Counters
	LastDenied time.Time
}

// MemoryStatsStore guarda contadores em memória.
// É o store do gateway quando nem Prometheus nem Redis estão configurados.
// Não faz expiração.
type MemoryStatsStore struct {
	mu         sync.Mutex
	total      Counters
	byRoute    map[string]Counters
	byKey      map[string]Counters
	lastDenied time.Time

	trackKeys bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byRoute: make(map[string]Counters),
		byKey:   make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	route := routeOf(ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev.Allowed)
	if !ev.Allowed && ev.At.After(s.lastDenied) {
		s.lastDenied = ev.At
	}

	if route != "" {
		c := s.byRoute[route]
		c.add(ev.Allowed)
		s.byRoute[route] = c
	}
	if s.trackKeys && ev.Key != "" {
		c := s.byKey[ev.Key]
		c.add(ev.Allowed)
		s.byKey[ev.Key] = c
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		Total:      s.total,
		ByRoute:    maps.Clone(s.byRoute),
		ByKey:      maps.Clone(s.byKey),
		LastDenied: s.lastDenied,
	}
}
