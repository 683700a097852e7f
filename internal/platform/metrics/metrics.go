package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SignIns          *prometheus.CounterVec
	CartItemsAdded   prometheus.Counter
	CheckoutsStarted prometheus.Counter
	ProfileViews     prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SignIns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unitrader_signins_total",
			Help: "Sign-in attempts by outcome (success, domain_rejected, user_cancelled, provider_error).",
		}, []string{"outcome"}),
		CartItemsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "unitrader_cart_items_added_total",
			Help: "Cart lines added or replaced.",
		}),
		CheckoutsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "unitrader_checkouts_started_total",
			Help: "Checkout redirect sessions created.",
		}),
		ProfileViews: promauto.NewCounter(prometheus.CounterOpts{
			Name: "unitrader_profile_views_total",
			Help: "Aggregated profile views served.",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "unitrader_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// NewForTest creates metrics on a private registry so parallel tests do not
// collide on duplicate registration.
func NewForTest() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		SignIns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "unitrader_signins_total",
		}, []string{"outcome"}),
		CartItemsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "unitrader_cart_items_added_total",
		}),
		CheckoutsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "unitrader_checkouts_started_total",
		}),
		ProfileViews: factory.NewCounter(prometheus.CounterOpts{
			Name: "unitrader_profile_views_total",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "unitrader_http_request_duration_seconds",
		}, []string{"route", "status"}),
	}
}
