// Package metrics defines the custom Prometheus metrics of the backoffice API.
// It is the single source of truth for metric names, labels and help strings.
//
// Metrics register with the default Prometheus registry on package load via
// promauto; the /metrics endpoint exposes them next to the echoprometheus
// request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success", "conflict", "invalid", "throttled" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by action and result.",
	},
	[]string{"action", "result"},
)

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordsMutatedTotal counts successful writes to owned records.
// Labels:
//   - entity: "client" or "transaction"
//   - op: "create", "update" or "delete"
var RecordsMutatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_mutated_total",
		Help:      "Total number of client and transaction writes, by entity and operation.",
	},
	[]string{"entity", "op"},
)

// ── Dashboard metrics ─────────────────────────────────────────────────────────

// DashboardBuildDuration measures how long a dashboard takes to aggregate,
// storage reads included.
var DashboardBuildDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dashboard_build_duration_seconds",
		Help:      "Duration of dashboard aggregation including storage reads.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
