package alert

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	alertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_alerts_sent_total",
			Help: "Total number of delivered alerts per sink",
		},
		[]string{"sink"},
	)

	alertFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_alert_failures_total",
			Help: "Total number of failed alert deliveries per sink",
		},
		[]string{"sink"},
	)
)
