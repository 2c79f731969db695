package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"document-gateway/middleware/httperr"
	"document-gateway/middleware/ratelimit/application"
	"document-gateway/middleware/ratelimit/domain"
	"document-gateway/middleware/requestid"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type KeyFunc func(r *http.Request) string

type Options struct {
	Gate                domain.Gate
	Stats               domain.StatsStore
	Logger              *slog.Logger
	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RejectStatus        int
	AddRateLimitHeaders bool
	// RouteFn dá o path gravado nas estatísticas. Padrão: r.URL.Path.
	RouteFn func(r *http.Request) string
	// Now é usado em StatsEvent.At. Padrão: time.Now.
	Now func() time.Time
}

func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	if opts.RouteFn == nil {
		opts.RouteFn = func(r *http.Request) string { return r.URL.Path }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	svc := application.Service{Gate: opts.Gate}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if opts.AddRateLimitHeaders && opts.Gate != nil {
				rt := opts.Gate.Rate()
				w.Header().Set("X-RateLimit-Limit", formatInt(rt.Limit))
				w.Header().Set("X-RateLimit-Window", formatFloat(rt.Window.Seconds()))
			}

			dec := svc.Decide()

			if opts.Stats != nil {
				err := opts.Stats.Record(ctx, domain.StatsEvent{
					Key:     opts.KeyFn(r),
					Allowed: dec.Admitted,
					Method:  r.Method,
					Path:    opts.RouteFn(r),
					At:      opts.Now(),
				})
				if err != nil {
					opts.Logger.WarnContext(ctx, "rate stats record failed", "error", err)
				}
			}

			if !dec.Admitted {
				opts.Logger.InfoContext(ctx, "request limit exceeded",
					"limit", dec.Rate.Limit,
					"window", dec.Rate.Window,
					"retry_after", dec.RetryAfter,
					"request_id", requestid.FromContext(ctx),
					"method", r.Method,
					"path", r.URL.Path,
				)
				trace.SpanFromContext(ctx).AddEvent("ratelimit.denied", trace.WithAttributes(
					attribute.Int("ratelimit.limit", dec.Rate.Limit),
					attribute.String("ratelimit.window", dec.Rate.Window.String()),
					attribute.Int64("ratelimit.retry_after_ms", dec.RetryAfter.Milliseconds()),
				))

				w.Header().Set("Retry-After", formatInt(retryAfterSeconds(dec.RetryAfter)))
				_ = httperr.Write(w, r, opts.RejectStatus, "Request limit exceeded. The limit set is: "+dec.Rate.String())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds arredonda para cima: Retry-After só aceita segundos inteiros.
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
