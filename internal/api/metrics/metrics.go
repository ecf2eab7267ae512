// Package metrics defines and registers all custom Prometheus metrics for the
// restaurant auth API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "restaurant_auth"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts role-scoped login attempts.
// Labels:
//   - role: the role declared by the caller (e.g. "admin")
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of role-scoped login attempts, by declared role and result.",
	},
	[]string{"role", "result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success" or "failure"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// GuestLoginsTotal counts guest account provisionings.
var GuestLoginsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guest_logins_total",
		Help:      "Total number of guest accounts provisioned.",
	},
)

// TokenVerificationsTotal counts bearer token checks in the auth middleware.
// Label:
//   - result: "ok", "missing", or "invalid"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// GuestsReapedTotal counts expired guest accounts deleted by the reaper.
var GuestsReapedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guests_reaped_total",
		Help:      "Total number of expired guest accounts deleted by the background reaper.",
	},
)

// ── Kitchen metrics ───────────────────────────────────────────────────────────

// OrdersCreatedTotal counts newly created kitchen orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of kitchen orders created.",
	},
)

// OrderStatusUpdatesTotal counts order state machine transitions.
// Label:
//   - status: the new order status applied (e.g. "preparing")
var OrderStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_updates_total",
		Help:      "Total number of order status transitions, by new status.",
	},
	[]string{"status"},
)
