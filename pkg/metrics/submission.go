package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SubmissionMetrics counts budget and quote submissions by outcome.
type SubmissionMetrics struct {
	outcomes *prometheus.CounterVec
	items    *prometheus.HistogramVec
}

func NewSubmissionMetrics(reg prometheus.Registerer) *SubmissionMetrics {
	if reg == nil {
		return &SubmissionMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "budget_submissions_total",
		Help:      "Cart submissions by kind and outcome.",
	}, []string{"kind", "outcome"})
	items := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "budget_submission_items",
		Help:      "Distinct lines per accepted submission.",
		Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
	}, []string{"kind"})
	reg.MustRegister(outcomes, items)
	return &SubmissionMetrics{outcomes: outcomes, items: items}
}

// ObserveSuccess records an accepted submission and its line count.
func (m *SubmissionMetrics) ObserveSuccess(kind string, itemCount int) {
	if m == nil || m.outcomes == nil {
		return
	}
	kind = normalizeLabel(kind)
	m.outcomes.WithLabelValues(kind, "success").Inc()
	m.items.WithLabelValues(kind).Observe(float64(itemCount))
}

// ObserveFailure records a rejected submission under its failure kind.
func (m *SubmissionMetrics) ObserveFailure(kind, reason string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(kind), normalizeLabel(reason)).Inc()
}
