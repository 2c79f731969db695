package domain

import (
	"errors"
	"testing"
	"time"
)

func TestRate_MinIntervalAndString(t *testing.T) {
	r := Rate{Limit: 10, Window: time.Second}
	if r.MinInterval() != 100*time.Millisecond {
		t.Fatalf("expected 100ms, got %s", r.MinInterval())
	}
	if got := r.String(); got != "10 requests per seconds" {
		t.Fatalf("unexpected String: %q", got)
	}
	if got := (Rate{Limit: 3, Window: 90 * time.Second}).String(); got != "3 requests per 1m30s" {
		t.Fatalf("unexpected String: %q", got)
	}
}

func TestRate_Validate(t *testing.T) {
	cases := []Rate{
		{Limit: 0, Window: time.Second},
		{Limit: -5, Window: time.Second},
		{Limit: 1, Window: 0},
	}
	for _, r := range cases {
		err := r.Validate()
		if !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("%+v: expected ErrInvalidRate, got %v", r, err)
		}
	}
	if err := (Rate{Limit: 1, Window: time.Minute}).Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestParseTimeUnit(t *testing.T) {
	cases := map[string]time.Duration{
		"SECONDS":      time.Second,
		"seconds":      time.Second,
		" Minute ":     time.Minute,
		"MILLISECONDS": time.Millisecond,
		"DAYS":         24 * time.Hour,
		"hour":         time.Hour,
	}
	for in, want := range cases {
		got, err := ParseTimeUnit(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}

	for _, bad := range []string{"", "fortnights"} {
		if _, err := ParseTimeUnit(bad); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("%q: expected config error, got %v", bad, err)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != PolicySpacing {
		t.Fatalf("expected default spacing, got %q %v", p, err)
	}
	if p, err := ParsePolicy("WINDOW"); err != nil || p != PolicyWindow {
		t.Fatalf("expected window, got %q %v", p, err)
	}
	if _, err := ParsePolicy("sliding"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestDecisionConstructors(t *testing.T) {
	r := Rate{Limit: 1, Window: time.Second}
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a := Admitted(at, r)
	if !a.Admitted || !a.At.Equal(at) || a.RetryAfter != 0 {
		t.Fatalf("unexpected admitted decision: %+v", a)
	}
	d := Denied(r, 300*time.Millisecond)
	if d.Admitted || !d.At.IsZero() || d.RetryAfter != 300*time.Millisecond || d.Rate != r {
		t.Fatalf("unexpected denied decision: %+v", d)
	}
}
