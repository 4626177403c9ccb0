package writer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	outcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_writer_outcomes_total",
			Help: "Total number of writer messages by outcome",
		},
		[]string{"outcome"},
	)

	processTimeHist = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blockpipe_writer_process_time_ms",
			Help:    "Time from task creation to a committed write in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 4, 10), //nolint:mnd
		},
	)
)
