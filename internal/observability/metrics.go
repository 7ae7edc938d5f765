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
			Namespace: "locuslink",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "locuslink",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "locuslink",
			Subsystem: "client",
			Name:      "operations_total",
			Help:      "Host app operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)
	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "locuslink",
			Subsystem: "client",
			Name:      "operation_duration_seconds",
			Help:      "Host app operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)
	capabilityRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "locuslink",
			Subsystem: "client",
			Name:      "capability_rejections_total",
			Help:      "Operations refused because the host app is missing or too old.",
		},
		[]string{"operation", "required_version"},
	)
	bridgeAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "locuslink",
			Subsystem: "bridge",
			Name:      "attempts_total",
			Help:      "HTTP bridge attempts toward the host app.",
		},
		[]string{"endpoint", "status", "retried"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			operations, operationDuration, capabilityRejections,
			bridgeAttempts,
		)
	})
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordOperation(op, outcome string, duration time.Duration) {
	RegisterMetrics()
	operations.WithLabelValues(op, outcome).Inc()
	operationDuration.WithLabelValues(op, outcome).Observe(duration.Seconds())
}

func RecordCapabilityRejection(op string, requiredVersion int32) {
	RegisterMetrics()
	capabilityRejections.WithLabelValues(op, strconv.Itoa(int(requiredVersion))).Inc()
}

// RecordBridgeAttempt counts one HTTP attempt; status 0 means no response.
func RecordBridgeAttempt(endpoint string, status int, retried bool) {
	RegisterMetrics()
	bridgeAttempts.WithLabelValues(endpoint, strconv.Itoa(status), strconv.FormatBool(retried)).Inc()
}

// ClientMetrics feeds action.Client observations into the process registry.
type ClientMetrics struct{}

func (ClientMetrics) ObserveOperation(op string, outcome string, elapsed time.Duration) {
	RecordOperation(op, outcome, elapsed)
}

func (ClientMetrics) CapabilityRejected(op string, requiredVersion int32) {
	RecordCapabilityRejection(op, requiredVersion)
}
