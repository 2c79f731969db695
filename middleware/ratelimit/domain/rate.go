package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidRate é a causa de todo ConfigError produzido por Rate.Validate.
var ErrInvalidRate = errors.New("invalid rate")

// ConfigError indica configuração inválida do gate. É fatal na construção.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ratelimit config: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidRate }

// Rate é "Limit requisições por Window".
type Rate struct {
	Limit  int
	Window time.Duration
}

func (r Rate) Validate() error {
	if r.Limit <= 0 {
		return &ConfigError{Field: "limit", Reason: "must be > 0, got " + strconv.Itoa(r.Limit)}
	}
	if r.Window <= 0 {
		return &ConfigError{Field: "window", Reason: "must be > 0, got " + r.Window.String()}
	}
	return nil
}

// MinInterval é o espaçamento mínimo entre duas admissões (Window / Limit).
// Só faz sentido para um Rate válido.
func (r Rate) MinInterval() time.Duration {
	return r.Window / time.Duration(r.Limit)
}

func (r Rate) String() string {
	return strconv.Itoa(r.Limit) + " requests per " + windowName(r.Window)
}

func windowName(d time.Duration) string {
	for _, u := range timeUnits {
		if d == u.d {
			return u.plural
		}
	}
	return d.String()
}

type timeUnit struct {
	name   string
	plural string
	d      time.Duration
}

// mesma ordem e nomes do java.util.concurrent.TimeUnit
var timeUnits = []timeUnit{
	{"NANOSECONDS", "nanoseconds", time.Nanosecond},
	{"MICROSECONDS", "microseconds", time.Microsecond},
	{"MILLISECONDS", "milliseconds", time.Millisecond},
	{"SECONDS", "seconds", time.Second},
	{"MINUTES", "minutes", time.Minute},
	{"HOURS", "hours", time.Hour},
	{"DAYS", "days", 24 * time.Hour},
}

// ParseTimeUnit converte nomes como "SECONDS", "second" ou "Minutes" para a
// duração de uma unidade.
func ParseTimeUnit(name string) (time.Duration, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return 0, &ConfigError{Field: "time unit", Reason: "is empty"}
	}
	for _, u := range timeUnits {
		if n == u.name || n+"S" == u.name {
			return u.d, nil
		}
	}
	return 0, &ConfigError{Field: "time unit", Reason: fmt.Sprintf("unknown %q", name)}
}
