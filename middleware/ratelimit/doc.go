// Package ratelimit fornece adapters HTTP (net/http) para o gate de admissão e
// para o limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos (Gate, Decision, Rate, Clock) sem net/http
//   - application: casos de uso (decisão admit/deny, acquire/timeout)
//   - infra: implementações concretas (SpacingGate, WindowGate, semáforo, stats)
//   - ratelimit (este pacote): middlewares HTTP + tradução para status/headers
//
// Fluxo no gateway:
//
//  1. Consulta o gate uma única vez (antes de rota, corpo ou qualquer outra coisa)
//  2. Se negado, registra em log (INFO) e responde 429 com Retry-After
//  3. Se admitido, chama o próximo handler sem segurar nenhum lock do gate
//
// O gate é global ao processo; a chave do cliente (IP/header/XFF) serve só
// para estatística.
package ratelimit
