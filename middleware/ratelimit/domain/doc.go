// Package domain define contratos e tipos de domínio do portão de admissão
// (gate) e do limite de concorrência.
//
// Este pacote não depende de net/http nem de implementações concretas.
// Relógio, gate e estatísticas são interfaces para permitir testes
// determinísticos (ex.: ManualClock em infra).
package domain
