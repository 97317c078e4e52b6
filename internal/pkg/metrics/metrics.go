// Package metrics provides Prometheus metrics for the seller health service
// (RED for HTTP, chat upstream calls, query result sizes and the response
// cache).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "seller_health"

var (
	// HTTPRequestTotal counts requests by method, route, status (RED: rate).
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, path, and status.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDurationSeconds is request latency histogram (RED: duration).
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
		},
		[]string{"method", "path"},
	)

	// ChatUpstreamRequestsTotal counts completion calls by outcome (ok, error).
	ChatUpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_upstream_requests_total",
			Help:      "Total number of chat completion calls by outcome.",
		},
		[]string{"outcome"},
	)

	// ChatUpstreamDurationSeconds is completion call latency.
	ChatUpstreamDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_upstream_duration_seconds",
			Help:      "Chat completion call duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 9), // 100ms to ~25s
		},
	)

	// ViolationQueryResults observes how many records a query returned.
	ViolationQueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "violation_query_results",
			Help:      "Number of violation records returned per query.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// ViolationCacheHitsTotal counts response cache hits.
	ViolationCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violation_cache_hits_total",
			Help:      "Total number of violation query cache hits.",
		},
	)

	// ViolationCacheMissesTotal counts response cache misses.
	ViolationCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violation_cache_misses_total",
			Help:      "Total number of violation query cache misses.",
		},
	)

	// RateLimitedTotal counts requests rejected by the per-client limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by rate limiting.",
		},
		[]string{"path"},
	)
)
