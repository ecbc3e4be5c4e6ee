package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for ObserveDocument.
const (
	OutcomeParsed     = "parsed"
	OutcomeEmpty      = "empty"
	OutcomeUnreadable = "unreadable"
	OutcomeFailed     = "failed"
)

// ImportMetrics exposes counters/histograms for agenda imports.
type ImportMetrics struct {
	documentsTotal    *prometheus.CounterVec
	appointmentsTotal *prometheus.CounterVec
	cacheTotal        *prometheus.CounterVec
	parseLatency      *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *ImportMetrics {
	m := &ImportMetrics{
		documentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendapdf",
			Subsystem: "import",
			Name:      "documents_total",
			Help:      "Agenda documents imported, by source and outcome",
		}, []string{"source", "outcome"}),
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendapdf",
			Subsystem: "import",
			Name:      "appointments_total",
			Help:      "Extracted agenda entries, by kind",
		}, []string{"kind"}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendapdf",
			Subsystem: "import",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups, by result",
		}, []string{"result"}),
		parseLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agendapdf",
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Time spent reading and parsing one agenda",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.documentsTotal, m.appointmentsTotal, m.cacheTotal, m.parseLatency)
	return m
}

func (m *ImportMetrics) ObserveDocument(source, outcome string) {
	if m == nil {
		return
	}
	m.documentsTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveAppointments counts valid appointments and free slots of one parse.
func (m *ImportMetrics) ObserveAppointments(valid, free int) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues("appointment").Add(float64(valid))
	m.appointmentsTotal.WithLabelValues("free_slot").Add(float64(free))
}

func (m *ImportMetrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	label := "miss"
	if hit {
		label = "hit"
	}
	m.cacheTotal.WithLabelValues(label).Inc()
}

func (m *ImportMetrics) ObserveDuration(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.parseLatency.WithLabelValues(source).Observe(d.Seconds())
}
