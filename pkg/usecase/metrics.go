package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the use cases
type Metrics struct {
	assessments *prometheus.CounterVec
	progress    prometheus.Counter
	rejected    *prometheus.CounterVec
	percentage  prometheus.Histogram
}

// Rejection reasons
const (
	reasonValidation = "validation"
	reasonIncomplete = "incomplete"
)

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		assessments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assessor",
			Name:      "assessments_total",
			Help:      "Number of final assessments by risk level",
		}, []string{"risk_level"}),
		progress: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "assessor",
			Name:      "progress_requests_total",
			Help:      "Number of progress computations",
		}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assessor",
			Name:      "rejected_submissions_total",
			Help:      "Number of rejected submissions by reason",
		}, []string{"reason"}),
		percentage: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "assessor",
			Name:      "score_percentage",
			Help:      "Overall percentage of final assessments",
			Buckets:   []float64{20, 40, 60, 80, 90, 100},
		}),
	}
}
