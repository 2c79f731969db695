package domain

import (
	"context"
	"time"
)

// StatsEvent representa uma decisão do gate.
//
// Key identifica o cliente (IP/header) apenas para estatística: o gate é
// global e não particiona por chave.
//
// Cuidado com cardinalidade ao persistir Key/Path (Redis/Prometheus).
type StatsEvent struct {
	Key     string
	Allowed bool

	Method string
	Path   string

	At time.Time
}

// StatsStore persiste estatísticas do gate.
//
// O middleware trata erro como best-effort (não derruba a requisição).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
