package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlanSimulations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summit_plan_simulations_total",
			Help: "Total number of payoff simulations run",
		},
		[]string{"strategy"},
	)

	PlanCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summit_plan_cache_hits_total",
			Help: "Total number of payoff plans served from cache",
		},
	)

	PlanCacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summit_plan_cache_errors_total",
			Help: "Total number of plan cache failures",
		},
		[]string{"op"},
	)

	PlanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summit_plan_duration_seconds",
			Help:    "Duration of payoff simulations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	DebtsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summit_debts_imported_total",
			Help: "Total number of debts created from imported files",
		},
		[]string{"format"},
	)

	AdviceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summit_advice_requests_total",
			Help: "Total number of advice requests by outcome",
		},
		[]string{"outcome"},
	)
)
