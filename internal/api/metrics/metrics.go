// Package metrics defines the custom Prometheus metrics for the session
// gateway. It is the single source of truth for metric names, labels, and
// help strings; promauto registers everything with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "session_gateway"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "failure", "superseded" (stale response discarded
//     by the sequence discipline), or "unknown_role"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// GuardDecisionsTotal counts route guard decisions per navigation.
// Labels:
//   - decision: "allow" or "redirect"
//   - reason: "public", "authorized", "no_session", "unauthorized_role"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by decision and reason.",
	},
	[]string{"decision", "reason"},
)

// SessionRecoveriesTotal counts snapshot recovery attempts on startup.
// Label:
//   - outcome: "recovered", "rejected" (bad signature/role), "revoked"
//     (server-side record gone), "gone" (identity deleted), "superseded"
//     (a newer login or logout resolved while the recovery was in flight)
var SessionRecoveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_recoveries_total",
		Help:      "Total number of persisted session recovery attempts, by outcome.",
	},
	[]string{"outcome"},
)

// BackendCallDuration measures identity backend round-trips.
// Label:
//   - operation: provider operation name (e.g. "sign_in")
var BackendCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_call_duration_seconds",
		Help:      "Duration of identity backend calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// AuditQueueDepth tracks events waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each worker channel.",
	},
	[]string{"worker_id"},
)
