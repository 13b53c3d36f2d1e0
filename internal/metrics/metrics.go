package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ProviderFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "startrade",
			Subsystem: "provider",
			Name:      "fetches_total",
			Help:      "Price provider fetches by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	AnalysisLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "startrade",
			Subsystem: "analysis",
			Name:      "latency_seconds",
			Help:      "Time to fetch and analyze one symbol",
			Buckets:   prometheus.DefBuckets,
		},
	)

	StaleResults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "startrade",
			Subsystem: "selection",
			Name:      "stale_results_total",
			Help:      "Completed fetches discarded because the selection moved on",
		},
	)

	ChatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "startrade",
			Subsystem: "agent",
			Name:      "requests_total",
			Help:      "Chat relay requests by outcome",
		},
		[]string{"outcome"},
	)
)

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeNetwork     = "network"
	OutcomeError       = "error"
)

// Register adds all collectors to the default registry. Safe to call repeatedly.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(ProviderFetches, AnalysisLatency, StaleResults, ChatRequests)
	})
}
