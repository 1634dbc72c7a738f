package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg prometheus.Registerer

	QuotesCreated     prometheus.Counter
	QuotesAccepted    prometheus.Counter
	QuotesDeclined    prometheus.Counter
	QuotesExpired     prometheus.Counter
	PoliciesBound     prometheus.Counter
	PoliciesCancelled prometheus.Counter
	BindDurationSec   prometheus.Histogram

	gatherer prometheus.Gatherer
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	quotesCreated := prometheus.NewCounter(prometheus.CounterOpts{Name: "fleetcover_quotes_created_total"})
	quotesAccepted := prometheus.NewCounter(prometheus.CounterOpts{Name: "fleetcover_quotes_accepted_total"})
	quotesDeclined := prometheus.NewCounter(prometheus.CounterOpts{Name: "fleetcover_quotes_declined_total"})
	quotesExpired := prometheus.NewCounter(prometheus.CounterOpts{Name: "fleetcover_quotes_expired_total"})
	policiesBound := prometheus.NewCounter(prometheus.CounterOpts{Name: "fleetcover_policies_bound_total"})
	policiesCancelled := prometheus.NewCounter(prometheus.CounterOpts{Name: "fleetcover_policies_cancelled_total"})
	bindDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fleetcover_bind_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(quotesCreated, quotesAccepted, quotesDeclined, quotesExpired, policiesBound, policiesCancelled, bindDuration)
	return &Registry{
		reg:               r,
		QuotesCreated:     quotesCreated,
		QuotesAccepted:    quotesAccepted,
		QuotesDeclined:    quotesDeclined,
		QuotesExpired:     quotesExpired,
		PoliciesBound:     policiesBound,
		PoliciesCancelled: policiesCancelled,
		BindDurationSec:   bindDuration,
		gatherer:          r,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
