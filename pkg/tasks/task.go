// Package tasks defines the durable per-id processing state shared by the
// listener, writer and monitor.
package tasks

import (
	"errors"
	"time"

	"github.com/goran-ethernal/BlockPipe/pkg/entity"
)

// Status is the processing status of a task.
type Status string

const (
	StatusNotProcessed Status = "not_processed"
	// StatusProcessing is reserved, it is never persisted.
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
	StatusCancelled  Status = "cancelled"
)

// IsTerminal reports whether no further transition is possible from s.
func (s Status) IsTerminal() bool {
	return s == StatusProcessed || s == StatusCancelled
}

var (
	// ErrTaskNotFound is returned by operations addressing a single task that does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskNotCancellable is returned when cancelling a task that already left not_processed.
	ErrTaskNotCancellable = errors.New("task is not cancellable")
)

// ProcessingTask is the durable record of one id to process.
// Uses meddler tags for automatic struct-to-db mapping.
type ProcessingTask struct {
	ID              int64       `meddler:"id,pk" json:"row_id"`
	NetworkID       int64       `meddler:"network_id" json:"network_id"`
	Entity          entity.Kind `meddler:"entity,entity" json:"entity"`
	EntityID        uint64      `meddler:"entity_id" json:"entity_id"`
	CollectUID      string      `meddler:"collect_uid" json:"collect_uid"`
	Status          Status      `meddler:"status" json:"status"`
	Attempts        int         `meddler:"attempts" json:"attempts"`
	Data            string      `meddler:"data,zeroisnull" json:"data,omitempty"`
	StartTimestamp  int64       `meddler:"start_timestamp" json:"start_timestamp"`
	FinishTimestamp *int64      `meddler:"finish_timestamp" json:"finish_timestamp,omitempty"`
}

// NewTask returns a not_processed task started now.
func NewTask(kind entity.Kind, id uint64, collectUID string) *ProcessingTask {
	return &ProcessingTask{
		Entity:         kind,
		EntityID:       id,
		CollectUID:     collectUID,
		Status:         StatusNotProcessed,
		StartTimestamp: time.Now().UnixMilli(),
	}
}

// StartedAt returns the start timestamp as a time.
func (t *ProcessingTask) StartedAt() time.Time {
	return time.UnixMilli(t.StartTimestamp)
}

// FinishedAt returns the finish timestamp and whether it is set.
func (t *ProcessingTask) FinishedAt() (time.Time, bool) {
	if t.FinishTimestamp == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*t.FinishTimestamp), true
}

// ProcessingState is the watermark of an entity kind: the highest id whose
// task rows and queue messages have all been committed.
type ProcessingState struct {
	Entity    entity.Kind `meddler:"entity,entity" json:"entity"`
	NetworkID int64       `meddler:"network_id" json:"network_id"`
	EntityID  uint64      `meddler:"entity_id" json:"entity_id"`
	UpdatedAt int64       `meddler:"updated_at" json:"updated_at"`
}

// TaskMessage is the body published to the processor queue for every new task.
type TaskMessage struct {
	EntityID   uint64 `json:"entity_id"`
	CollectUID string `json:"collect_uid"`
}
