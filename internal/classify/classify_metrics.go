package classify

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the classification subsystem.
type Metrics struct {
	ClassificationsTotal *prometheus.CounterVec
	ClassifyDuration     *prometheus.HistogramVec
}

// NewMetrics registers and returns classification metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ClassificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beacon_classifications_total",
			Help: "Total report classifications by outcome and resulting severity.",
		}, []string{"outcome", "severity"}),
		ClassifyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "beacon_classify_duration_seconds",
			Help:    "Duration of report classification in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~260s
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.ClassificationsTotal,
		m.ClassifyDuration,
	)
	return m
}

// Hooks carries classifier callbacks so the classifier itself stays free of
// any metrics dependency.
type Hooks struct {
	OnClassify func(outcome string, severity Severity, duration float64)
}

// Hooks returns a Hooks that increments the corresponding metrics.
func (m *Metrics) Hooks() Hooks {
	return Hooks{
		OnClassify: func(outcome string, severity Severity, duration float64) {
			m.ClassificationsTotal.WithLabelValues(outcome, string(severity)).Inc()
			m.ClassifyDuration.WithLabelValues(outcome).Observe(duration)
		},
	}
}
