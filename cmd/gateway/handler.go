package main

import (
	"log/slog"
	"net/http"

	"document-gateway/documents"
	docapp "document-gateway/documents/application"
	"document-gateway/middleware/ratelimit"
	"document-gateway/middleware/ratelimit/domain"
	"document-gateway/middleware/recovery"
	"document-gateway/middleware/requestid"
	"document-gateway/middleware/tracing"
)

type deps struct {
	gate    domain.Gate
	stats   domain.StatsStore
	repo    docapp.Repository
	tracing *tracing.Config
	logger  *slog.Logger
}

// newHandler monta a cadeia, de fora para dentro:
// tracing -> requestid -> recovery -> ratelimit -> concorrência -> documentos.
func newHandler(cfg config, d deps) http.Handler {
	var h http.Handler = &documents.Handler{
		Service:      docapp.Service{Repo: d.repo, Logger: d.logger},
		Logger:       d.logger,
		MaxBodyBytes: cfg.maxBodyBytes,
	}
	h = ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.concurrencyTimeout,
		Logger:         d.logger,
	})(h)
	if cfg.rateEnabled {
		h = ratelimit.Middleware(ratelimit.Options{
			Gate:                d.gate,
			Stats:               d.stats,
			Logger:              d.logger,
			KeyHeader:           cfg.keyHeader,
			TrustXForwardedFor:  cfg.trustXFF,
			RejectStatus:        http.StatusTooManyRequests,
			AddRateLimitHeaders: cfg.addHeaders,
			RouteFn:             statsRoute,
		})(h)
	}
	h = recovery.Middleware(d.logger)(h)
	h = requestid.Middleware(h)
	h = tracing.Middleware(d.tracing)(h)
	return h
}

// statsRoute mantém a cardinalidade baixa: paths desconhecidos viram "other".
func statsRoute(r *http.Request) string {
	if r.URL.Path == documents.CreatePath {
		return r.URL.Path
	}
	return "other"
}
