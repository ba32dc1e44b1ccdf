// Package metrics provides Prometheus metrics for showcase-engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "showcase"

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

// Domain metrics
var (
	// ProjectsCreatedTotal counts project submissions.
	ProjectsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projects",
			Name:      "created_total",
			Help:      "Total projects submitted",
		},
	)

	// VotesCastTotal counts vote mutations by vote type.
	VotesCastTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "votes",
			Name:      "cast_total",
			Help:      "Total vote operations processed",
		},
		[]string{"type"},
	)

	// CommentsAddedTotal counts comments added to projects.
	CommentsAddedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "comments",
			Name:      "added_total",
			Help:      "Total comments added",
		},
	)

	// ModerationDecisionsTotal counts status transitions by target status.
	ModerationDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "moderation",
			Name:      "decisions_total",
			Help:      "Total moderation status transitions",
		},
		[]string{"status"},
	)

	// ContentScreeningRejectionsTotal counts writes rejected by the
	// injection screening layer.
	ContentScreeningRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "security",
			Name:      "screening_rejections_total",
			Help:      "Total writes rejected by content screening",
		},
	)
)
