package listener

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	frontierGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blockpipe_listener_frontier",
		Help: "Highest frontier id observed by the listener",
	})

	pausedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blockpipe_listener_paused",
		Help: "1 while the listener is paused",
	})

	tasksEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockpipe_listener_tasks_enqueued_total",
		Help: "Total number of new tasks inserted and published",
	})

	tasksRestarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockpipe_listener_tasks_restarted_total",
		Help: "Total number of unprocessed tasks re-published",
	})

	chunkFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockpipe_listener_chunk_failures_total",
		Help: "Total number of aborted chunks",
	})
)
