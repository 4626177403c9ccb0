package sli

import (
	"context"
	"database/sql"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/db"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/sli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Compile-time check to ensure Recorder implements sli.Recorder interface.
var _ sli.Recorder = (*Recorder)(nil)

const metricsTable = "processing_metrics"

var lastValue = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "blockpipe_sli",
		Help: "Last recorded value of each service level indicator",
	},
	[]string{"entity", "name"},
)

// metricRow is a processing_metrics row. Uses meddler tags for automatic struct-to-db mapping.
type metricRow struct {
	ID        int64   `meddler:"id,pk"`
	NetworkID int64   `meddler:"network_id"`
	Entity    string  `meddler:"entity"`
	EntityID  *uint64 `meddler:"entity_id"`
	Name      string  `meddler:"name"`
	Value     float64 `meddler:"value"`
	RowTime   int64   `meddler:"row_time"`
}

// Recorder appends indicator samples to processing_metrics and mirrors the
// last value of each indicator to a Prometheus gauge.
type Recorder struct {
	db          *sql.DB
	dialect     db.Dialect
	networkID   int64
	log         *logger.Logger
	maintenance db.Maintenance
}

// NewRecorder creates a Recorder bound to networkID.
func NewRecorder(database *sql.DB, dialect db.Dialect, networkID int64,
	maintenance db.Maintenance, log *logger.Logger) *Recorder {
	if maintenance == nil {
		maintenance = &db.NoOpMaintenance{}
	}

	return &Recorder{
		db:          database,
		dialect:     dialect,
		networkID:   networkID,
		log:         log.WithComponent(common.ComponentSLI),
		maintenance: maintenance,
	}
}

// Record stores metric. Failures are logged and swallowed.
func (r *Recorder) Record(_ context.Context, metric sli.Metric) {
	lastValue.WithLabelValues(metric.Entity, metric.Name).Set(metric.Value)

	unlock := r.maintenance.AcquireOperationLock()
	defer unlock()

	row := &metricRow{
		NetworkID: r.networkID,
		Entity:    metric.Entity,
		EntityID:  metric.EntityID,
		Name:      metric.Name,
		Value:     metric.Value,
		RowTime:   time.Now().UnixMilli(),
	}

	if err := r.dialect.Meddler().Insert(r.db, metricsTable, row); err != nil {
		r.log.Errorw("failed to record metric",
			"entity", metric.Entity,
			"name", metric.Name,
			"value", metric.Value,
			"error", err)
		return
	}

	r.log.Debugw("metric recorded", "entity", metric.Entity, "name", metric.Name, "value", metric.Value)
}
