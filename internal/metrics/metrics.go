// Package metrics provides Prometheus metrics for RefDesk.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotRefreshDuration tracks full reference data reloads
	SnapshotRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "refdesk",
			Subsystem: "snapshot",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of reference data refreshes in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// TableRows tracks rows loaded per table on the last refresh
	TableRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "refdesk",
			Subsystem: "snapshot",
			Name:      "table_rows",
			Help:      "Rows loaded per table on the last refresh",
		},
		[]string{"table"},
	)

	// SourceIssuesTotal tracks tables that came back absent or malformed
	SourceIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refdesk",
			Subsystem: "snapshot",
			Name:      "source_issues_total",
			Help:      "Total number of source tables that could not be loaded, by kind",
		},
		[]string{"table", "kind"},
	)

	// EligibilitySearchesTotal tracks candidate searches by outcome
	EligibilitySearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refdesk",
			Subsystem: "eligibility",
			Name:      "searches_total",
			Help:      "Total number of eligible referee searches by result",
		},
		[]string{"result"},
	)

	// LedgerOperationsTotal tracks ledger writes by operation and result
	LedgerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refdesk",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Total number of ledger operations by operation and result",
		},
		[]string{"operation", "result"},
	)
)
