package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	findings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_monitor_findings_total",
			Help: "Total number of checks that reported a finding",
		},
		[]string{"check"},
	)

	checkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_monitor_check_failures_total",
			Help: "Total number of checks that failed to run",
		},
		[]string{"check"},
	)

	checkDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blockpipe_monitor_check_duration_seconds",
			Help:    "Duration of monitor checks",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"check"},
	)
)
