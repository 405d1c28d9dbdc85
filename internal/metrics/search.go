package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "semsearch",
			Name:      "searches_total",
			Help:      "Total number of similarity searches",
		},
		[]string{"type", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "semsearch",
			Name:      "search_duration_seconds",
			Help:      "Similarity search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"type"},
	)

	QueryLogWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "semsearch",
			Name:      "query_log_writes_total",
			Help:      "Total query log write outcomes",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(QueryLogWritesTotal)
}

// RecordSearch records one completed search.
func RecordSearch(searchType string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SearchesTotal.WithLabelValues(searchType, status).Inc()
	SearchDuration.WithLabelValues(searchType).Observe(duration.Seconds())
}

// QueryLogRecorder counts query log outcomes.
type QueryLogRecorder struct{}

// QueryLogged counts a successful write.
func (QueryLogRecorder) QueryLogged() {
	QueryLogWritesTotal.WithLabelValues("written").Inc()
}

// QueryLogFailed counts a failed write.
func (QueryLogRecorder) QueryLogFailed() {
	QueryLogWritesTotal.WithLabelValues("failed").Inc()
}

// QueryLogDropped counts an entry dropped before writing.
func (QueryLogRecorder) QueryLogDropped() {
	QueryLogWritesTotal.WithLabelValues("dropped").Inc()
}
