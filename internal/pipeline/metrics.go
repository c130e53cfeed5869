package pipeline

import "github.com/prometheus/client_golang/prometheus"

var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "predictd",
			Subsystem: "pipeline",
			Name:      "predictions_total",
			Help:      "Total number of Predict calls by outcome",
		},
		[]string{"outcome"},
	)

	batchRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "predictd",
			Subsystem: "pipeline",
			Name:      "batch_rows",
			Help:      "Rows per validated prediction request",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	inferDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "predictd",
			Subsystem: "pipeline",
			Name:      "infer_duration_seconds",
			Help:      "Duration of model inference calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

const (
	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeFailed  = "failed"
)

func init() {
	prometheus.MustRegister(predictionsTotal, batchRows, inferDuration)
}
