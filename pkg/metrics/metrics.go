// Package metrics exposes the engine's prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Task outcome label values.
const (
	OutcomeFinished = "finished"
	OutcomeFailed   = "failed"
	OutcomeTimedOut = "timedout"
)

var (
	// TasksSubmitted counts task submissions by mode (sync|async).
	TasksSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridexec",
		Subsystem: "gateway",
		Name:      "tasks_submitted_total",
		Help:      "Total number of tasks accepted by the submission gateway.",
	}, []string{"mode"})

	// TasksConcluded counts terminal task outcomes.
	TasksConcluded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridexec",
		Subsystem: "gateway",
		Name:      "tasks_concluded_total",
		Help:      "Total number of tasks that reached a terminal state.",
	}, []string{"outcome"})
)
