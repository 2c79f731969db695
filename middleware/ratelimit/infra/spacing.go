package infra

import (
	"sync"
	"time"

	"document-gateway/middleware/ratelimit/domain"
)

// SpacingGate admite no máximo uma requisição a cada Window/Limit.
//
// Para Limit > 1 isso é mais restritivo que "Limit por janela": não há rajada.
// O último instante admitido começa no momento da construção, então a
// primeira requisição também respeita o espaçamento.
type SpacingGate struct {
	rate        domain.Rate
	minInterval time.Duration
	clock       domain.Clock

	mu           sync.Mutex
	lastAdmitted time.Time
}

func NewSpacingGate(r domain.Rate, opts ...GateOption) (*SpacingGate, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	minInterval := r.MinInterval()
	if minInterval <= 0 {
		return nil, &domain.ConfigError{Field: "window", Reason: "too small for limit " + r.String()}
	}

	cfg := newGateConfig(opts)
	return &SpacingGate{
		rate:         r,
		minInterval:  minInterval,
		clock:        cfg.clock,
		lastAdmitted: cfg.clock.Now(),
	}, nil
}

func (g *SpacingGate) Rate() domain.Rate { return g.rate }

func (g *SpacingGate) MinInterval() time.Duration { return g.minInterval }

// TryAdmit implementa domain.Gate.
func (g *SpacingGate) TryAdmit() domain.Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	// a leitura do relógio fica dentro da seção crítica: os instantes
	// admitidos saem monotônicos na ordem do lock.
	now := g.clock.Now()
	elapsed := now.Sub(g.lastAdmitted)
	if elapsed >= g.minInterval {
		g.lastAdmitted = now
		return domain.Admitted(now, g.rate)
	}

	// elapsed negativo (relógio voltou) também nega.
	retry := g.minInterval - elapsed
	if elapsed < 0 {
		retry = g.minInterval
	}
	return domain.Denied(g.rate, retry)
}
