package documents

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"document-gateway/documents/application"
	"document-gateway/documents/domain"
	"document-gateway/middleware/httperr"
	"document-gateway/middleware/requestid"
)

// CreatePath é o único endpoint servido.
const CreatePath = "/api/v3/lk/documents/create"

const defaultMaxBodyBytes = 1 << 20

type Handler struct {
	Service      application.Service
	Logger       *slog.Logger
	MaxBodyBytes int64
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// ServeHTTP: método primeiro (405), depois path (400), depois corpo.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if r.Method != http.MethodPost {
		_ = httperr.Write(w, r, http.StatusMethodNotAllowed, "Method Not Allowed: "+r.Method)
		return
	}
	if r.URL.Path != CreatePath {
		_ = httperr.Write(w, r, http.StatusBadRequest, "Invalid path: "+r.URL.Path)
		return
	}

	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	sub, err := domain.Decode(http.MaxBytesReader(rootWriter(w), r.Body, limit))
	if err != nil {
		h.logger().InfoContext(r.Context(), "rejecting malformed document",
			"error", err,
			"request_id", requestid.FromContext(r.Context()),
		)
		_ = httperr.Write(w, r, http.StatusBadRequest, malformedMessage(err))
		return
	}

	doc, err := h.Service.Create(r.Context(), sub)
	if err != nil {
		h.internalError(w, r, "create document failed", err)
		return
	}

	// codifica antes de escrever o header: falha aqui ainda vira 500
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		h.internalError(w, r, "encode document failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger().ErrorContext(r.Context(), msg,
		"error", err,
		"request_id", requestid.FromContext(r.Context()),
	)
	_ = httperr.Write(w, r, http.StatusInternalServerError, "Internal error while processing document")
}

// rootWriter desce pelos Unwrap até o writer do net/http. MaxBytesReader
// só consegue marcar a conexão para fechar quando recebe esse writer.
func rootWriter(w http.ResponseWriter) http.ResponseWriter {
	for {
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return w
		}
		w = u.Unwrap()
	}
}

func malformedMessage(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return "Request body too large"
	}
	return "Malformed document: " + strings.TrimPrefix(err.Error(), domain.ErrMalformed.Error()+": ")
}
