// Package metrics exposes Prometheus collectors for the recommendation
// engine and its collaborators.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationsTotal counts recommendation runs by outcome
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeed_recommendation_runs_total",
			Help: "Total number of recommendation generation runs",
		},
		[]string{"status"},
	)

	// GenerationDuration tracks how long a full generation run takes
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinefeed_recommendation_run_duration_seconds",
			Help:    "Duration of recommendation generation runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CandidatesScored counts individual candidate movies scored
	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinefeed_candidates_scored_total",
			Help: "Total number of candidate movies scored",
		},
	)

	// CandidateFaults counts candidates skipped due to scoring faults
	CandidateFaults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinefeed_candidate_faults_total",
			Help: "Total number of candidates skipped after a scoring fault",
		},
	)

	// RecommendationScores records the distribution of final scores
	RecommendationScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinefeed_recommendation_scores",
			Help:    "Distribution of persisted recommendation scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	// CacheRequestsTotal counts cache lookups by endpoint and result
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeed_cache_requests_total",
			Help: "Total number of cache lookups",
		},
		[]string{"endpoint", "result"},
	)
)
