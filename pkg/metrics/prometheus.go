package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the tracker.
type Metrics struct {
	EmailsFetched    prometheus.Counter
	EmailsProcessed  prometheus.Counter
	FlightsExtracted prometheus.Counter
	RecordsRejected  *prometheus.CounterVec
	ProcessingTime   prometheus.Histogram
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		EmailsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_fetched_total",
			Help:      "The total number of emails fetched from the mail source",
		}),
		EmailsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_processed_total",
			Help:      "The total number of processed emails",
		}),
		FlightsExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_extracted_total",
			Help:      "The total number of flight records in run outputs",
		}),
		RecordsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Candidate records dropped, by reason",
		}, []string{"reason"}),
		ProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_time_seconds",
			Help:      "Time taken to process an email batch",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
