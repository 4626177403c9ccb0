package blockstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blocksWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockpipe_blocks_written_total",
		Help: "Total number of blocks persisted",
	})

	transactionsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockpipe_transactions_written_total",
		Help: "Total number of transactions persisted",
	})

	eventsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockpipe_events_written_total",
		Help: "Total number of events persisted",
	})
)
