// Package metrics exposes Prometheus instrumentation for the secret
// service client. Collection is off unless Init is called; every observer
// is a no-op before registration so library users pay nothing by default.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remoteCallsTotal *prometheus.CounterVec
	callDuration     *prometheus.HistogramVec
	promptsTotal     *prometheus.CounterVec
	operationsTotal  *prometheus.CounterVec

	// Registration guard
	metricsOnce       sync.Once
	metricsRegistered bool
)

// Init registers all Prometheus metrics with the default registry. Call
// once at startup if metrics are wanted.
func Init() {
	metricsOnce.Do(func() {
		remoteCallsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyfold_remote_calls_total",
				Help: "Total number of remote service calls issued",
			},
			[]string{"method", "status"},
		)

		callDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "keyfold_remote_call_duration_seconds",
				Help:    "Duration of remote service calls in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"method"},
		)

		promptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyfold_prompts_total",
				Help: "Total number of interactive prompts driven",
			},
			[]string{"status"},
		)

		operationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyfold_operations_total",
				Help: "Total number of composite operations completed",
			},
			[]string{"kind", "status"},
		)

		metricsRegistered = true
	})
}

// ObserveRemoteCall records one remote call outcome and its duration.
func ObserveRemoteCall(method, status string, elapsed time.Duration) {
	if !metricsRegistered {
		return
	}
	remoteCallsTotal.WithLabelValues(method, status).Inc()
	callDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObservePrompt records one prompt resolution.
// Status is one of "completed", "dismissed", "failed".
func ObservePrompt(status string) {
	if !metricsRegistered {
		return
	}
	promptsTotal.WithLabelValues(status).Inc()
}

// ObserveOperation records a composite operation reaching a terminal state.
func ObserveOperation(kind, status string) {
	if !metricsRegistered {
		return
	}
	operationsTotal.WithLabelValues(kind, status).Inc()
}
