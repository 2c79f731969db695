package infra

import (
	"document-gateway/middleware/ratelimit/domain"
)

type gateConfig struct {
	clock domain.Clock
}

type GateOption func(*gateConfig)

// WithClock troca a fonte de tempo do gate (padrão: SystemClock).
func WithClock(c domain.Clock) GateOption {
	return func(cfg *gateConfig) {
		if c != nil {
			cfg.clock = c
		}
	}
}

func newGateConfig(opts []GateOption) gateConfig {
	cfg := gateConfig{clock: SystemClock{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewGate constrói o gate da política pedida.
func NewGate(policy domain.Policy, r domain.Rate, opts ...GateOption) (domain.Gate, error) {
	switch policy {
	case domain.PolicyWindow:
		return NewWindowGate(r, opts...)
	case domain.PolicySpacing, "":
		return NewSpacingGate(r, opts...)
	default:
		return nil, &domain.ConfigError{Field: "policy", Reason: "unknown " + string(policy)}
	}
}
