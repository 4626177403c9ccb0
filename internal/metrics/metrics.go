package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	serviceRestarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockpipe_starts_total",
			Help: "Number of times the pipeline process started",
		},
	)

	serviceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpipe_service_errors_total",
			Help: "Total number of services that stopped with an error",
		},
		[]string{"component"},
	)

	componentHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockpipe_component_health",
			Help: "Component health status (1=running, 0=stopped)",
		},
		[]string{"component"},
	)

	uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blockpipe_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blockpipe_goroutines",
			Help: "Number of active goroutines",
		},
	)

	memoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockpipe_memory_usage_bytes",
			Help: "Memory usage statistics",
		},
		[]string{"type"},
	)

	startTime = time.Now()
)

// StartInc counts a process start.
func StartInc() {
	serviceRestarts.Inc()
}

// ServiceErrorInc counts a service that returned an error.
func ServiceErrorInc(component string) {
	serviceErrors.WithLabelValues(component).Inc()
}

// ComponentHealthSet marks a component as running or stopped.
func ComponentHealthSet(component string, healthy bool) {
	value := float64(1)
	if !healthy {
		value = 0
	}

	componentHealth.WithLabelValues(component).Set(value)
}

// UpdateSystemMetrics refreshes the runtime gauges.
func UpdateSystemMetrics() {
	uptime.Set(time.Since(startTime).Seconds())
	goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	memoryUsage.WithLabelValues("alloc").Set(float64(m.Alloc))
	memoryUsage.WithLabelValues("sys").Set(float64(m.Sys))
	memoryUsage.WithLabelValues("heap_inuse").Set(float64(m.HeapInuse))
}
