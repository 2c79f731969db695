package domain

import (
	"context"
	"errors"
)

// ErrSaturated indica que não havia vaga livre dentro do prazo.
var ErrSaturated = errors.New("no free slot")

// SlotPool representa um recurso com capacidade finita (ex: requisições em
// processamento simultâneo).
//
// Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar.
// Ao adquirir, retorna uma função de release que deve ser chamada exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
