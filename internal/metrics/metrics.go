package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the POS service metrics behind a private prometheus
// registry so tests can build isolated instances.
type Registry struct {
	reg *prometheus.Registry

	OrdersCreated   prometheus.Counter
	OrdersSettled   prometheus.Counter
	OrdersCancelled prometheus.Counter
	EventsPublished prometheus.Counter
	Subscribers     prometheus.Gauge
	RequestDuration prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	created := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_orders_created_total"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_orders_settled_total"})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_orders_cancelled_total"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_realtime_events_published_total"})
	subscribers := prometheus.NewGauge(prometheus.GaugeOpts{Name: "pos_realtime_subscribers"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(created, settled, cancelled, published, subscribers, duration)
	return &Registry{
		reg:             r,
		OrdersCreated:   created,
		OrdersSettled:   settled,
		OrdersCancelled: cancelled,
		EventsPublished: published,
		Subscribers:     subscribers,
		RequestDuration: duration,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
