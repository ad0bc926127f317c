// Package metrics exposes the Prometheus collectors recorded by the
// generation engine, the actual cache and the exam lifecycle.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "exam_engine"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	actualsGenerated     *prometheus.CounterVec
	generationFailures   *prometheus.CounterVec
	generationDuration   prometheus.Histogram
	actualCacheLookups   *prometheus.CounterVec
	lifecycleTransitions *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actualsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actuals_generated_total",
			Help:      "Question actuals generated, by exam type and response type.",
		}, []string{"exam_type", "response_type"}),
		generationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actual_generation_failures_total",
			Help:      "Failed actual generations, by failure reason.",
		}, []string{"reason"}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "actual_generation_duration_seconds",
			Help:      "Latency of a single actual generation including persistence.",
			Buckets:   prometheus.DefBuckets,
		}),
		actualCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actual_cache_lookups_total",
			Help:      "Actual cache lookups, by result.",
		}, []string{"result"}),
		lifecycleTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_transitions_total",
			Help:      "Exam lifecycle transitions applied, by entity and target status.",
		}, []string{"entity", "status"}),
	}
	reg.MustRegister(
		m.actualsGenerated,
		m.generationFailures,
		m.generationDuration,
		m.actualCacheLookups,
		m.lifecycleTransitions,
	)
	return m
}

func (m *Metrics) ActualGenerated(examType, responseType string, took time.Duration) {
	if m == nil {
		return
	}
	m.actualsGenerated.WithLabelValues(examType, responseType).Inc()
	m.generationDuration.Observe(took.Seconds())
}

func (m *Metrics) GenerationFailed(reason string) {
	if m == nil {
		return
	}
	m.generationFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.actualCacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) Transition(entity, status string) {
	if m == nil {
		return
	}
	m.lifecycleTransitions.WithLabelValues(entity, status).Inc()
}
