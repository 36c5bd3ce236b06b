// Package metrics defines and registers all custom Prometheus metrics for the
// Akeray property API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry at init
// time via promauto; importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "akeray"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthEventsTotal counts authentication outcomes recorded by the audit pipeline.
// Labels:
//   - kind: the event kind (e.g. "login", "login_denied", "otp_verified")
//   - role: the role store the event belongs to ("admin", "owner", "tenant")
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication events processed, by kind and role.",
	},
	[]string{"kind", "role"},
)

// AuditErrorsTotal counts audit events that failed to persist.
// Label:
//   - reason: short description of the failure (e.g. "insert_failed")
var AuditErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit events that failed processing.",
	},
	[]string{"reason"},
)

// AuditDroppedTotal counts audit events discarded because the worker channel
// was full. Requests are never blocked on the audit trail.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped due to a full worker channel.",
	},
)

// ── Property metrics ──────────────────────────────────────────────────────────

// PropertiesCreatedTotal counts newly created property listings.
// Label:
//   - role: the role of the creator ("owner" or "admin")
var PropertiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "properties_created_total",
		Help:      "Total number of properties created, by creator role.",
	},
	[]string{"role"},
)
