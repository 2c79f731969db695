package domain

import (
	"fmt"
	"strings"
	"time"
)

// Decision é o resultado efêmero de uma consulta ao gate.
type Decision struct {
	Admitted bool
	// At é o instante da admissão (zero quando negado).
	At time.Time
	// Rate configurado, para mensagens de diagnóstico.
	Rate Rate
	// RetryAfter é o tempo mínimo até a próxima admissão possível.
	// Só é preenchido quando negado.
	RetryAfter time.Duration
}

func Admitted(at time.Time, r Rate) Decision {
	return Decision{Admitted: true, At: at, Rate: r}
}

func Denied(r Rate, retryAfter time.Duration) Decision {
	return Decision{Rate: r, RetryAfter: retryAfter}
}

// Gate decide admit/deny para cada requisição.
//
// TryAdmit deve ser seguro para uso concorrente sem lock externo e nunca
// bloqueia nem falha: negar é um retorno normal.
type Gate interface {
	TryAdmit() Decision
	Rate() Rate
}

// Policy escolhe o algoritmo do gate.
type Policy string

const (
	// PolicySpacing garante no máximo uma admissão por Window/Limit.
	PolicySpacing Policy = "spacing"
	// PolicyWindow permite até Limit admissões por Window (token bucket).
	PolicyWindow Policy = "window"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicySpacing, nil
	case PolicySpacing, PolicyWindow:
		return p, nil
	default:
		return "", &ConfigError{Field: "policy", Reason: fmt.Sprintf("unknown %q", s)}
	}
}
