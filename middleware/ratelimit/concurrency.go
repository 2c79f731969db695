package ratelimit

import (
	"log/slog"
	"net/http"
	"time"

	"document-gateway/middleware/httperr"
	"document-gateway/middleware/ratelimit/application"
	"document-gateway/middleware/ratelimit/infra"
)

type ConcurrencyOptions struct {
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
	Logger         *slog.Logger
}

// ConcurrencyMiddleware limita quantas requisições admitidas são processadas
// ao mesmo tempo. Max <= 0 desativa.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	svc := application.ConcurrencyService{
		Pool:           infra.NewChanPool(opts.Max),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, err := svc.Acquire(r.Context())
			if err != nil {
				opts.Logger.WarnContext(r.Context(), "concurrency limit reached", "max", opts.Max, "error", err)
				_ = httperr.Write(w, r, opts.RejectStatus, "Server busy, try again later")
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
