// Package listener defines the control surface of the task producer used by the
// monitor and the admin API.
package listener

import (
	"context"
	"errors"

	"github.com/goran-ethernal/BlockPipe/pkg/entity"
)

var (
	// ErrInvalidRange is returned when a range starts after it ends.
	ErrInvalidRange = errors.New("invalid range: from is greater than to")
	// ErrFillInProgress is returned when a fill is requested while another one runs.
	ErrFillInProgress = errors.New("a fill is already in progress")
	// ErrRestartInProgress is returned when a restart is requested while another one runs.
	ErrRestartInProgress = errors.New("a restart is already in progress")
)

// Status is a snapshot of the listener state.
type Status struct {
	Entity       entity.Kind `json:"entity"`
	Frontier     uint64      `json:"frontier"`
	Watermark    uint64      `json:"watermark"`
	HasWatermark bool        `json:"has_watermark"`
	Paused       bool        `json:"paused"`
	Filling      bool        `json:"filling"`
	Restarting   bool        `json:"restarting"`
}

// Listener turns frontier notifications into task rows and queue messages.
type Listener interface {
	// Pause stops enqueueing at the next chunk boundary.
	Pause()
	// Resume lets a paused fill continue.
	Resume()
	// IsPaused reports whether the listener is paused.
	IsPaused() bool

	// ProcessOne enqueues a single id without touching the watermark.
	ProcessOne(ctx context.Context, id uint64) error
	// ProcessRange enqueues [from, to] without touching the watermark.
	ProcessRange(ctx context.Context, from, to uint64) error
	// RestartUnprocessed re-publishes every not_processed task of kind.
	RestartUnprocessed(ctx context.Context, kind entity.Kind) error

	// LastObservedFrontier returns the highest frontier id received.
	LastObservedFrontier() uint64
	// Status returns a snapshot of the listener state.
	Status(ctx context.Context) (Status, error)
}
