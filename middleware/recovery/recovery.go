// Package recovery converte panics de handlers em respostas 500, sem derrubar
// o processo.
package recovery

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"document-gateway/middleware/httperr"
	"document-gateway/middleware/requestid"
	"document-gateway/middleware/wrapwriter"
)

func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := wrapwriter.Wrap(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic while handling request",
					"panic", fmt.Sprint(rec),
					"request_id", requestid.FromContext(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				if !ww.Written() {
					_ = httperr.Write(ww, r, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
