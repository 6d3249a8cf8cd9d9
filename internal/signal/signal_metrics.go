package signal

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the signal lifecycle.
type Metrics struct {
	SignalsTotal        *prometheus.CounterVec
	TransitionsTotal    *prometheus.CounterVec
	ClaimConflictsTotal prometheus.Counter
}

// NewMetrics registers and returns signal metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beacon_signals_total",
			Help: "Total SOS signals created, by assigned danger level.",
		}, []string{"danger_level"}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beacon_signal_transitions_total",
			Help: "Total signal status transitions applied.",
		}, []string{"from", "to"}),
		ClaimConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beacon_signal_claim_conflicts_total",
			Help: "Conditional status writes rejected because a concurrent writer won.",
		}),
	}
	reg.MustRegister(
		m.SignalsTotal,
		m.TransitionsTotal,
		m.ClaimConflictsTotal,
	)
	return m
}
