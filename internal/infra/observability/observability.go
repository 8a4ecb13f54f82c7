// Package observability exposes Prometheus metrics for the points ledger,
// the screen-time session lifecycle, and the persistence adapter.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// LedgerEntriesTotal counts appended ledger entries by type.
var LedgerEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "ledger",
	Name:      "entries_total",
	Help:      "Total ledger entries appended, by entry type.",
}, []string{"type"})

// LedgerRemovals counts hard-deleted ledger entries (undo).
var LedgerRemovals = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "ledger",
	Name:      "removals_total",
	Help:      "Total ledger entries removed via undo.",
})

// TaskResets counts daily task reset runs.
var TaskResets = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "ledger",
	Name:      "task_resets_total",
	Help:      "Total daily task reset runs (manual and scheduled).",
})

// ─── Request Metrics ────────────────────────────────────────────────────────

// RequestsCreated counts child requests by kind.
var RequestsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "requests",
	Name:      "created_total",
	Help:      "Total child requests created, by kind.",
}, []string{"kind"})

// RequestsResolved counts parent decisions by kind and outcome.
var RequestsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "requests",
	Name:      "resolved_total",
	Help:      "Total request decisions, by kind and outcome.",
}, []string{"kind", "outcome"})

// CashOutsProcessed counts processed cash-out requests by outcome.
var CashOutsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "cashout",
	Name:      "processed_total",
	Help:      "Total cash-out requests processed, by outcome.",
}, []string{"outcome"})

// ─── Session Metrics ────────────────────────────────────────────────────────

// SessionsStarted counts screen-time sessions started.
var SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "screen",
	Name:      "sessions_started_total",
	Help:      "Total screen-time sessions started.",
})

// SessionsEnded counts screen-time sessions ended.
var SessionsEnded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "screen",
	Name:      "sessions_ended_total",
	Help:      "Total screen-time sessions ended.",
})

// ActiveSessions tracks live sessions (running or paused).
var ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "hearth",
	Subsystem: "screen",
	Name:      "active_sessions",
	Help:      "Current number of live screen-time sessions.",
})

// ─── Persistence Metrics ────────────────────────────────────────────────────

// SnapshotSaves counts whole-state snapshot writes.
var SnapshotSaves = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "state",
	Name:      "snapshot_saves_total",
	Help:      "Total whole-state snapshot writes.",
})

// SnapshotSaveErrors counts failed snapshot writes.
var SnapshotSaveErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "state",
	Name:      "snapshot_save_errors_total",
	Help:      "Total failed snapshot writes.",
})

// SnapshotReplacements counts wholesale state replacements from another writer.
var SnapshotReplacements = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "state",
	Name:      "snapshot_replacements_total",
	Help:      "Total in-memory state replacements triggered by external snapshot writes.",
})
