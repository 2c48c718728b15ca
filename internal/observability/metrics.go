package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chessjudge",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chessjudge",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chessjudge",
			Name:      "runs_total",
			Help:      "Judging runs by verdict.",
		},
		[]string{"verdict"},
	)
	finalScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chessjudge",
			Name:      "final_score",
			Help:      "Final score of accepted runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		},
	)
	exchangeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chessjudge",
			Name:      "exchange_duration_seconds",
			Help:      "Wall time of one candidate exchange.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, runs, finalScore, exchangeDuration)
	})
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordRun counts a finished run. Only accepted runs feed the score
// histogram.
func RecordRun(verdict string, score int) {
	RegisterMetrics()
	runs.WithLabelValues(verdict).Inc()
	if score >= 0 && verdict == "accepted" {
		finalScore.Observe(float64(score))
	}
}

func RecordExchange(outcome string, duration time.Duration) {
	RegisterMetrics()
	exchangeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}
