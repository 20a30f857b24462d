package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level collectors for the interview pipeline. Registered once on
// the default registry and exposed on /metrics.
var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hireloop_sessions_started_total",
		Help: "Total number of interview sessions started",
	})

	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hireloop_sessions_completed_total",
		Help: "Total number of interview sessions that reached a feedback report",
	})

	SessionsAborted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hireloop_sessions_aborted_total",
		Help: "Total number of interview sessions aborted before completion",
	})

	CapabilityFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hireloop_capability_failures_total",
		Help: "Capability invocations that errored or timed out",
	}, []string{"capability"})

	CapabilityFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hireloop_capability_fallbacks_total",
		Help: "Capability invocations answered by a fallback result",
	}, []string{"capability"})

	CapabilityDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "hireloop_capability_duration_seconds",
		Help: "Duration of external capability invocations",
	}, []string{"capability"})
)
