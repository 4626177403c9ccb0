package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeHandled = "handled"
	outcomeFailed  = "failed"
)

var (
	messagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_queue_published_total",
			Help: "Total number of messages published per queue",
		},
		[]string{"queue"},
	)

	publishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_queue_publish_errors_total",
			Help: "Total number of failed publishes per queue",
		},
		[]string{"queue"},
	)

	messagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_queue_consumed_total",
			Help: "Total number of consumed messages per queue and outcome",
		},
		[]string{"queue", "outcome"},
	)

	reconnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_queue_reconnects_total",
			Help: "Total number of broker reconnect attempts",
		},
		[]string{"broker"},
	)
)

func publishedInc(queue string, err error) {
	if err != nil {
		publishErrors.WithLabelValues(queue).Inc()
		return
	}
	messagesPublished.WithLabelValues(queue).Inc()
}

func consumeOutcomeInc(queue, outcome string) {
	messagesConsumed.WithLabelValues(queue, outcome).Inc()
}

func reconnectInc(broker string) {
	reconnects.WithLabelValues(broker).Inc()
}
