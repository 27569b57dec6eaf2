package provisioner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdbprov_api_requests_total",
			Help: "Total number of cluster API requests",
		},
		[]string{"operation", "kind", "status"}, // status: success, error or unknown
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mdbprov_api_request_duration_seconds",
			Help:    "Time taken by cluster API requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)
)

func observeRequest(op string, kind resources.Kind, status string, elapsed time.Duration) {
	apiRequestsTotal.WithLabelValues(op, kind.String(), status).Inc()
	apiRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// WriteMetrics writes every registered metric to path in the node_exporter textfile format.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
