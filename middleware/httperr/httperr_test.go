package httperr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWriteAt_ShapeAndHeaders(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	r := httptest.NewRequest(http.MethodPost, "http://example/unknown", nil)
	w := httptest.NewRecorder()

	if err := WriteAt(w, r, http.StatusBadRequest, "Invalid path: /unknown", at); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	want := map[string]any{
		"timestamp": "2024-03-01T12:30:00Z",
		"status":    float64(400),
		"error":     "Bad Request",
		"message":   "Invalid path: /unknown",
		"path":      "/unknown",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("field %s: expected %v, got %v", k, v, got[k])
		}
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected extra fields: %v", got)
	}
}
