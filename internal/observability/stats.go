package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promomailer_generations_total",
			Help: "Total generation actions by outcome",
		},
		[]string{"result"},
	)

	pagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promomailer_pages_fetched_total",
			Help: "Total website fetch attempts by result",
		},
		[]string{"result"},
	)

	fetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "promomailer_fetch_duration_seconds",
			Help: "Duration of website fetches in seconds",
		},
	)

	completionCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promomailer_completion_calls_total",
			Help: "Total completion-service calls by operation",
		},
		[]string{"operation"},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promomailer_errors_total",
			Help: "Total errors by type and component",
		},
		[]string{"type", "component"},
	)
)

func IncGeneration(result string) {
	if result == "" {
		result = "unknown"
	}
	generationsTotal.WithLabelValues(result).Inc()
}

func IncPageFetched(result string) {
	if result == "" {
		result = "unknown"
	}
	pagesFetched.WithLabelValues(result).Inc()
}

func ObserveFetchDuration(seconds float64) {
	if seconds <= 0 {
		return
	}
	fetchDuration.Observe(seconds)
}

func IncAICall(operation string) {
	if operation == "" {
		operation = "unknown"
	}
	completionCalls.WithLabelValues(operation).Inc()
}

func IncError(errType, component string) {
	if errType == "" {
		errType = ErrorUnknown
	}
	if component == "" {
		component = "unknown"
	}
	errorsTotal.WithLabelValues(errType, component).Inc()
}
