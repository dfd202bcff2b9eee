// Package metrics defines and registers all custom Prometheus metrics for the
// VPN access API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vpnaccess"

// ── Entitlement metrics ───────────────────────────────────────────────────────

// EntitlementsCreatedTotal counts new entitlements.
// Label:
//   - plan: the plan name the entitlement was created from
var EntitlementsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entitlements_created_total",
		Help:      "Total number of entitlements created, by plan.",
	},
	[]string{"plan"},
)

// AccessChecksTotal counts access resolutions.
// Labels:
//   - result: "granted" or "denied"
//   - reason: deny reason code, empty string when granted
var AccessChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_checks_total",
		Help:      "Total number of access checks, by result and deny reason.",
	},
	[]string{"result", "reason"},
)

// ── Credential metrics ────────────────────────────────────────────────────────

// CredentialsIssuedTotal counts first-time credential creations. Repeat issue
// calls that return the existing credential are not counted.
var CredentialsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credentials_issued_total",
		Help:      "Total number of credentials issued.",
	},
)

// CredentialsRotatedTotal counts explicit credential rotations.
var CredentialsRotatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credentials_rotated_total",
		Help:      "Total number of credential rotations.",
	},
)

// CredentialIDRetriesTotal counts identifier regenerations after a storage
// uniqueness collision. This should stay at (or very near) zero.
var CredentialIDRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_id_retries_total",
		Help:      "Total number of credential identifier regenerations after a collision.",
	},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditEventsTotal counts audit events that completed processing.
// Label:
//   - type: lifecycle event type (e.g. "credential_issued")
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of lifecycle audit events successfully processed.",
	},
	[]string{"type"},
)

// AuditErrorsTotal counts audit events that failed processing.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of lifecycle audit events that failed processing.",
	},
)

// AuditQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditProcessingDuration measures how long a single audit event takes end-to-end.
var AuditProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_processing_duration_seconds",
		Help:      "Duration of audit event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
