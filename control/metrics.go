// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors for the connection dispatcher.

package control

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the dispatcher's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Accepted       prometheus.Counter
	AcceptErrors   prometheus.Counter
	Closed         prometheus.Counter
	Dispatches     prometheus.Counter
	RegisterErrors prometheus.Counter
	BytesReceived  prometheus.Counter
	BytesSent      prometheus.Counter
	WorkersActive  prometheus.Gauge
}

// NewMetrics creates and registers the dispatcher collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gsock_connections_accepted_total",
			Help: "Connections accepted from the listening socket.",
		}),
		AcceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gsock_accept_errors_total",
			Help: "Accept attempts that failed.",
		}),
		Closed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gsock_connections_closed_total",
			Help: "Client connections closed by the dispatcher or its workers.",
		}),
		Dispatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gsock_dispatches_total",
			Help: "Readable connections handed to a worker.",
		}),
		RegisterErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gsock_register_errors_total",
			Help: "Failed readiness registrations.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gsock_bytes_received_total",
			Help: "Request bytes read by workers.",
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gsock_bytes_sent_total",
			Help: "Reply bytes written by workers.",
		}),
		WorkersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gsock_workers_active",
			Help: "Workers currently serving a message.",
		}),
	}
	m.registry.MustRegister(
		m.Accepted, m.AcceptErrors, m.Closed, m.Dispatches,
		m.RegisterErrors, m.BytesReceived, m.BytesSent, m.WorkersActive,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Value returns the current value of the named counter or gauge, or zero
// when no such metric is registered.
func (m *Metrics) Value(name string) float64 {
	families, err := m.registry.Gather()
	if err != nil {
		return 0
	}
	for _, mf := range families {
		if mf.GetName() != name || len(mf.GetMetric()) == 0 {
			continue
		}
		metric := mf.GetMetric()[0]
		if c := metric.GetCounter(); c != nil {
			return c.GetValue()
		}
		return metric.GetGauge().GetValue()
	}
	return 0
}
