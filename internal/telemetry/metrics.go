package telemetry

import "github.com/prometheus/client_golang/prometheus"

// HTTPRequestDuration records HTTP handler latency by method/route/status.
var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "aether",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	},
	[]string{"method", "route", "status"},
)

// ActionsRecordedTotal counts actions appended to the log, by action_type.
var ActionsRecordedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "aether",
		Subsystem: "actions",
		Name:      "recorded_total",
		Help:      "Total number of actions recorded.",
	},
	[]string{"action_type"},
)

// ActionsClaimedTotal counts actions claimed with a lease by Herald.
var ActionsClaimedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "aether",
		Subsystem: "actions",
		Name:      "claimed_total",
		Help:      "Total number of actions claimed with a lease.",
	},
	[]string{"dataplane_id"},
)

// ActionsPublishedTotal counts actions successfully published to the message bus.
var ActionsPublishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "aether",
		Subsystem: "actions",
		Name:      "published_total",
		Help:      "Total number of actions published to the message bus.",
	},
	[]string{"routing_key"},
)

// HeraldTickDuration records the wall time of one Herald sync-all-deployments tick.
var HeraldTickDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "aether",
		Subsystem: "herald",
		Name:      "tick_duration_seconds",
		Help:      "Duration of one Herald tick across all deployments in a data plane.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"dataplane_id"},
)

// ReconcileDuration records controller reconcile latency by kind and outcome.
var ReconcileDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "aether",
		Subsystem: "operator",
		Name:      "reconcile_duration_seconds",
		Help:      "Duration of a single reconcile loop, by CRD kind and result.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind", "result"},
)

// All returns every Aether metric for registration with a Prometheus registerer.
func All() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequestDuration,
		ActionsRecordedTotal,
		ActionsClaimedTotal,
		ActionsPublishedTotal,
		HeraldTickDuration,
		ReconcileDuration,
	}
}
