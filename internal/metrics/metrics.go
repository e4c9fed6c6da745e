package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsIngested counts accepted events by source and type
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_events_ingested_total",
			Help: "Total number of events accepted into the event log",
		},
		[]string{"source", "event_type"},
	)

	// EventsDeduplicated counts on-chain events dropped as duplicates
	EventsDeduplicated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_events_deduplicated_total",
			Help: "Total number of redelivered on-chain events collapsed by the dedup key",
		},
		[]string{"event_type"},
	)

	// WebhookDeliveries counts webhook requests by outcome
	WebhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_webhook_deliveries_total",
			Help: "Total number of webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	// LogsSkipped counts contract logs dropped during decoding
	LogsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_webhook_logs_skipped_total",
			Help: "Total number of contract logs skipped during decoding",
		},
		[]string{"reason"},
	)

	// Transitions counts applied process transitions
	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_process_transitions_total",
			Help: "Total number of applied process state transitions",
		},
		[]string{"event_type", "to_status"},
	)

	// TransitionsIgnored counts events whose precondition status did not match
	TransitionsIgnored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_process_transitions_ignored_total",
			Help: "Total number of events dropped because the process was not in the required status",
		},
		[]string{"event_type", "current_status"},
	)

	// ProjectionErrors counts projection failures after event insertion
	ProjectionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_projection_errors_total",
			Help: "Total number of projection failures (event remains committed)",
		},
		[]string{"projector"},
	)

	// ProjectionDuration tracks per-event projection time
	ProjectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registry_projection_duration_seconds",
			Help:    "Projection processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"projector"},
	)
)
