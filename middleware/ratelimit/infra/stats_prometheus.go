package infra

import (
	"context"

	"document-gateway/middleware/ratelimit/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusStatsStore expõe as decisões do gate como contador.
//
// A rota entra como label; o chamador deve garantir cardinalidade baixa
// (o gateway só grava o path quando ele é o endpoint conhecido).
type PrometheusStatsStore struct {
	decisions *prometheus.CounterVec
}

// NewPrometheusStatsStore registra o contador em reg (prometheus.DefaultRegisterer se nil).
func NewPrometheusStatsStore(reg prometheus.Registerer) (*PrometheusStatsStore, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gateway",
		Subsystem: "gate",
		Name:      "decisions_total",
		Help:      "Admission decisions taken by the rate gate.",
	}, []string{"outcome", "route"})
	if err := reg.Register(decisions); err != nil {
		return nil, err
	}
	return &PrometheusStatsStore{decisions: decisions}, nil
}

func (s *PrometheusStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.decisions.WithLabelValues(outcome(ev.Allowed), routeOf(ev)).Inc()
	return nil
}

func (s *PrometheusStatsStore) Collector() prometheus.Collector { return s.decisions }
