package application

import (
	"time"

	"document-gateway/middleware/ratelimit/domain"
)

// DefaultRetryAfter é usado quando o gate nega sem estimar a espera.
const DefaultRetryAfter = 1 * time.Second

// Service concentra a regra de aplicação da admissão.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Service struct {
	Gate domain.Gate
}

// Decide consulta o gate exatamente uma vez.
func (s Service) Decide() domain.Decision {
	if s.Gate == nil {
		return domain.Decision{Admitted: true}
	}

	dec := s.Gate.TryAdmit()
	if !dec.Admitted && dec.RetryAfter <= 0 {
		dec.RetryAfter = DefaultRetryAfter
	}
	return dec
}
