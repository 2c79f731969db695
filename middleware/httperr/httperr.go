// Package httperr escreve o corpo de erro JSON comum a todas as respostas
// de erro do gateway: {timestamp, status, error, message, path}.
package httperr

import (
	"encoding/json"
	"net/http"
	"time"
)

type Body struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func New(status int, message, path string, at time.Time) Body {
	return Body{
		Timestamp: at,
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      path,
	}
}

// Write responde status com o corpo de erro, usando o instante atual.
func Write(w http.ResponseWriter, r *http.Request, status int, message string) error {
	return WriteAt(w, r, status, message, time.Now())
}

func WriteAt(w http.ResponseWriter, r *http.Request, status int, message string, at time.Time) error {
	b, err := json.Marshal(New(status, message, r.URL.Path, at))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}
