package timetable

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters/histograms for time table reads and writes.
type Metrics struct {
	operations    *prometheus.CounterVec
	droppedTotal  *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicsite",
			Subsystem: "timetable",
			Name:      "operations_total",
			Help:      "Time table fetch/replace calls by outcome",
		}, []string{"operation", "outcome"}),
		droppedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicsite",
			Subsystem: "timetable",
			Name:      "dropped_entries_total",
			Help:      "Submitted days/timings dropped or merged on write",
		}, []string{"reason"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinicsite",
			Subsystem: "timetable",
			Name:      "store_duration_seconds",
			Help:      "Latency of time table store round trips",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operations, m.droppedTotal, m.storeDuration)
	return m
}

func (m *Metrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveDropped(reason string) {
	if m == nil {
		return
	}
	m.droppedTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveStoreLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(operation).Observe(seconds)
}
