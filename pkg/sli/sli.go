// Package sli defines the service level indicators recorded by the pipeline.
package sli

import (
	"context"
)

// Entities a metric can be attached to besides entity kinds.
const (
	EntityQueue  = "queue"
	EntitySystem = "system"
)

// Metric names.
const (
	ProcessTimeMs     = "process_time_ms"
	DelayTimeMs       = "delay_time_ms"
	SyncDiffCount     = "rpc_sync_diff_count"
	MissedCount       = "missed_count"
	DuplicatesCount   = "duplicates_count"
	NotProcessedCount = "not_processed_count"
	RestartFramework  = "restart_framework"
)

// Metric is one indicator sample.
type Metric struct {
	Entity   string
	EntityID *uint64
	Name     string
	Value    float64
}

// ForEntity returns a metric attached to a single entity id.
func ForEntity(entity string, id uint64, name string, value float64) Metric {
	return Metric{Entity: entity, EntityID: &id, Name: name, Value: value}
}

// Recorder stores indicator samples. Recording is fire and forget, failures
// are logged by the implementation and never reach the caller.
type Recorder interface {
	Record(ctx context.Context, metric Metric)
}
