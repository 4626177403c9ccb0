package taskstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	taskInserts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockpipe_tasks_inserted_total",
			Help: "Total number of task rows inserted",
		},
	)

	watermark = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockpipe_watermark",
			Help: "Highest id fully enqueued per entity",
		},
		[]string{"entity"},
	)
)
