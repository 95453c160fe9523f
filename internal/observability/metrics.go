package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for analysis runs.
type Metrics struct {
	registry         *prometheus.Registry
	AnalysisRequests *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	RenamesApplied   prometheus.Counter
}

// NewMetrics constructs a metrics registry with analysis collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	reqs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pseudomancer_analysis_requests_total",
		Help: "Total analysis requests by outcome (ok, query_failed, parse_failed, rewrite_failed)",
	}, []string{"outcome"})

	durs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pseudomancer_analysis_duration_seconds",
		Help:    "End-to-end analysis duration in seconds, inference included",
		Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"outcome"})

	renames := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pseudomancer_renames_applied_total",
		Help: "Variable renames applied to pseudocode",
	})

	reg.MustRegister(reqs, durs, renames)

	return &Metrics{
		registry:         reg,
		AnalysisRequests: reqs,
		AnalysisDuration: durs,
		RenamesApplied:   renames,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAnalysis records one analysis run.
func (m *Metrics) RecordAnalysis(outcome string, duration time.Duration, renameCount int) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.AnalysisRequests.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.RenamesApplied.Add(float64(renameCount))
}
