package infra

import (
	"time"

	"document-gateway/middleware/ratelimit/domain"

	"golang.org/x/time/rate"
)

// WindowGate permite até Limit admissões por Window, em token bucket
// (x/time/rate) com burst = Limit e reposição a cada Window/Limit.
//
// Diferente do SpacingGate, o balde começa cheio.
type WindowGate struct {
	rate  domain.Rate
	clock domain.Clock
	lim   *rate.Limiter
}

func NewWindowGate(r domain.Rate, opts ...GateOption) (*WindowGate, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.MinInterval() <= 0 {
		return nil, &domain.ConfigError{Field: "window", Reason: "too small for limit " + r.String()}
	}

	cfg := newGateConfig(opts)
	return &WindowGate{
		rate:  r,
		clock: cfg.clock,
		lim:   rate.NewLimiter(rate.Every(r.MinInterval()), r.Limit),
	}, nil
}

func (g *WindowGate) Rate() domain.Rate { return g.rate }

// TryAdmit implementa domain.Gate. O rate.Limiter tem seu próprio mutex.
func (g *WindowGate) TryAdmit() domain.Decision {
	now := g.clock.Now()
	if g.lim.AllowN(now, 1) {
		return domain.Admitted(now, g.rate)
	}

	missing := 1 - g.lim.TokensAt(now)
	retry := time.Duration(missing * float64(g.rate.MinInterval()))
	if retry < 0 {
		retry = 0
	}
	return domain.Denied(g.rate, retry)
}
