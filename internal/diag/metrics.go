package diag

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the extraction pipeline.
type Metrics struct {
	degradations    *prometheus.CounterVec
	extractions     *prometheus.CounterVec
	acquisitions    *prometheus.CounterVec
	acquireDuration *prometheus.HistogramVec
}

// NewMetrics registers the pipeline collectors on reg. A nil reg creates
// unregistered collectors, which is what most tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		degradations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_pipeline_degradations_total",
				Help: "Number of times a pipeline stage fell back to its degraded behaviour",
			},
			[]string{"stage", "reason"},
		),
		extractions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_extractions_total",
				Help: "Number of completed extractions by source kind and validity",
			},
			[]string{"source_kind", "valid"},
		),
		acquisitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_acquisitions_total",
				Help: "Number of source acquisitions by method and status",
			},
			[]string{"method", "status"},
		),
		acquireDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recipe_acquisition_duration_seconds",
				Help:    "Time spent acquiring raw text (OCR, PDF text layer, file read)",
				Buckets: []float64{0.05, 0.25, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"method"},
		),
	}
}

// Degradations exposes the degradation counter, mainly for tests.
func (m *Metrics) Degradations() *prometheus.CounterVec { return m.degradations }

// Extractions exposes the extraction counter, mainly for tests.
func (m *Metrics) Extractions() *prometheus.CounterVec { return m.extractions }

// Acquisitions exposes the acquisition counter, mainly for tests.
func (m *Metrics) Acquisitions() *prometheus.CounterVec { return m.acquisitions }

func (m *Metrics) observeAcquire(method, status string, d time.Duration) {
	m.acquisitions.WithLabelValues(method, status).Inc()
	m.acquireDuration.WithLabelValues(method).Observe(d.Seconds())
}
