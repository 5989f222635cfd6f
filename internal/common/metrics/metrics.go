// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_chat_requests_total",
			Help: "Total number of chat requests by response type",
		},
		[]string{"response_type"},
	)

	SafetyBlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_safety_blocks_total",
			Help: "Total number of requests blocked by the safety filter",
		},
		[]string{"category"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_stage_duration_seconds",
			Help: "Duration of pipeline stage processing in seconds",
		},
		[]string{"stage"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_cache_requests_total",
			Help: "Reply cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
