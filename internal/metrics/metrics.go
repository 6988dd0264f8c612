// Package metrics defines and registers all custom Prometheus metrics for the
// Lawyer4u portal shell. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionRestoreTotal counts session restores by outcome.
// Label:
//   - outcome: "identity", "empty", "corrupted" or "storage_error"
var SessionRestoreTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restore_total",
		Help:      "Total number of session restores, by outcome.",
	},
	[]string{"outcome"},
)

// GuardDecisionsTotal counts route guard decisions.
// Label:
//   - state: "pending", "unauthorized", "forbidden", "public_blocked" or "allowed"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by resulting state.",
	},
	[]string{"state"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login submissions.
// Label:
//   - result: "success", "invalid_credentials", "blocked" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login submissions, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration submissions.
// Labels:
//   - role: the role requested on the form
//   - result: "success", "rejected" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration submissions, by role and result.",
	},
	[]string{"role", "result"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the backend API.
// Labels:
//   - operation: "register", "login", "lawyers", "profile", "update_profile",
//     "accounts", "lawyer_profiles", "verify_lawyer" or "ping"
//   - outcome: "ok", "rejected" or "unreachable"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of backend API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)
