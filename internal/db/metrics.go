package db

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	maintenanceRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockpipe_maintenance_runs_total",
			Help: "Total number of maintenance passes",
		},
	)

	maintenanceOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_maintenance_outcomes_total",
			Help: "Total number of maintenance passes by outcome",
		},
		[]string{"status"},
	)

	maintenanceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blockpipe_maintenance_duration_seconds",
			Help:    "Duration of maintenance passes",
			Buckets: prometheus.DefBuckets,
		},
	)

	maintenanceLastRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blockpipe_maintenance_last_run_timestamp",
			Help: "Unix timestamp of the last maintenance pass",
		},
	)

	walCheckpoints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_wal_checkpoint_total",
			Help: "Total number of WAL checkpoints",
		},
		[]string{"mode"},
	)

	vacuumRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockpipe_vacuum_total",
			Help: "Total number of VACUUM runs",
		},
	)

	dbSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blockpipe_db_size_bytes",
			Help: "Database size including WAL and shared memory files",
		},
	)
)

func maintenanceDurationLog(duration time.Duration) {
	maintenanceDuration.Observe(duration.Seconds())
}
