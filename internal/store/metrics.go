package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts store operations. A nil *Metrics records nothing.
type Metrics struct {
	loads        prometheus.Counter
	loadFailures *prometheus.CounterVec
	saves        prometheus.Counter
	saveFailures *prometheus.CounterVec
}

// NewMetrics creates the store counters and registers them with reg
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "menu_planer"
	}
	m := &Metrics{
		loads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "loads_total",
			Help:      "Number of menu table loads.",
		}),
		loadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "load_failures_total",
			Help:      "Number of loads that fell back to an empty table, by cause.",
		}, []string{"cause"}),
		saves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "saves_total",
			Help:      "Number of menu table saves.",
		}),
		saveFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "save_failures_total",
			Help:      "Number of failed saves, by step.",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.loads, m.loadFailures, m.saves, m.saveFailures)
	}
	return m
}

func (m *Metrics) load() {
	if m != nil {
		m.loads.Inc()
	}
}

func (m *Metrics) loadFailed(cause string) {
	if m != nil {
		m.loadFailures.WithLabelValues(cause).Inc()
	}
}

func (m *Metrics) save() {
	if m != nil {
		m.saves.Inc()
	}
}

func (m *Metrics) saveFailed(op string) {
	if m != nil {
		m.saveFailures.WithLabelValues(op).Inc()
	}
}
