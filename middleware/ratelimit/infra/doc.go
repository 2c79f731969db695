// Package infra contém implementações concretas para os contratos definidos
// no pacote domain.
//
// Exemplos:
//   - SpacingGate: no máximo uma admissão a cada Window/Limit (sync.Mutex)
//   - WindowGate: até Limit admissões por Window usando golang.org/x/time/rate
//   - ChanPool: semáforo simples para limite de concorrência
//   - Stats: memória, Redis e Prometheus
package infra
