// Package metrics exposes Prometheus instrumentation for cmd/lspclientctl.
// The sans-I/O client itself never touches this package: it has no I/O and
// no registry to publish to.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the counters lspclientctl registers.
type Metrics struct {
	RequestsSent     *prometheus.CounterVec
	EventsDispatched *prometheus.CounterVec
	DecodeErrors     prometheus.Counter
}

// New constructs and registers Metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lspclientctl",
			Name:      "requests_sent_total",
			Help:      "Number of LSP requests sent, labeled by request tag.",
		}, []string{"tag"}),
		EventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lspclientctl",
			Name:      "events_dispatched_total",
			Help:      "Number of events dispatched by the client, labeled by event kind.",
		}, []string{"kind"}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lspclientctl",
			Name:      "decode_errors_total",
			Help:      "Number of fatal framing errors encountered.",
		}),
	}
	reg.MustRegister(m.RequestsSent, m.EventsDispatched, m.DecodeErrors)
	return m
}
