// Package metrics provides observability for the exam module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the exam module.
type Metrics struct {
	// Eligibility outcomes by reason code
	EligibilityOutcome *prometheus.CounterVec

	// Submission results by outcome ("passed", "failed", "rejected")
	SubmissionResult *prometheus.CounterVec

	// Eligibility evaluation latency
	EvaluateLatency prometheus.Histogram

	// Full submission pipeline latency
	SubmitLatency prometheus.Histogram
}

// New creates a new Metrics instance with all exam module metrics registered.
func New() *Metrics {
	return &Metrics{
		EligibilityOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "refcert_exam_eligibility_outcomes_total",
			Help: "Total eligibility evaluations by resulting reason code",
		}, []string{"reason"}),

		SubmissionResult: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "refcert_exam_submissions_total",
			Help: "Total exam submissions by result",
		}, []string{"result"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "refcert_exam_evaluate_duration_seconds",
			Help:    "Duration of eligibility evaluation including snapshot load",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		SubmitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "refcert_exam_submit_duration_seconds",
			Help:    "Duration of submission handling including scoring and persistence",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementEligibilityOutcome records an eligibility evaluation result.
func (m *Metrics) IncrementEligibilityOutcome(reason string) {
	if m != nil {
		m.EligibilityOutcome.WithLabelValues(reason).Inc()
	}
}

// IncrementSubmissionResult records a submission outcome.
func (m *Metrics) IncrementSubmissionResult(result string) {
	if m != nil {
		m.SubmissionResult.WithLabelValues(result).Inc()
	}
}

// ObserveEvaluateLatency records the duration of one eligibility evaluation.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// ObserveSubmitLatency records the duration of one submission.
func (m *Metrics) ObserveSubmitLatency(d time.Duration) {
	if m != nil {
		m.SubmitLatency.Observe(d.Seconds())
	}
}
