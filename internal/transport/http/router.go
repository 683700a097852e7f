package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"unitrader/internal/platform/metrics"
	"unitrader/internal/platform/middleware"
)

const requestTimeout = 30 * time.Second

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler registers its routes on a chi router.
type Handler interface {
	Register(r chi.Router)
}

// RouterConfig wires the feature handlers and the middleware chain.
type RouterConfig struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Validator middleware.JWTValidator

	// Public handlers register on the open chain; Protected handlers sit
	// behind RequireAuth.
	Public    []Handler
	Protected []Handler

	// Backends are checked by /healthz; nil entries are skipped.
	Backends map[string]HealthChecker
}

// NewRouter builds the full HTTP surface.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))

	r.Get("/healthz", healthz(cfg.Logger, cfg.Backends))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range cfg.Public {
		h.Register(r)
	}
	r.Group(func(g chi.Router) {
		g.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))
		for _, h := range cfg.Protected {
			h.Register(g)
		}
	})

	return r
}

type healthResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends,omitempty"`
}

func healthz(logger *slog.Logger, backends map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		for name, checker := range backends {
			if checker == nil {
				continue
			}
			if resp.Backends == nil {
				resp.Backends = make(map[string]string)
			}
			if err := checker.Health(r.Context()); err != nil {
				resp.Backends[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Backends[name] = "ok"
		}
		writeJSON(w, r, logger, status, resp)
	}
}
