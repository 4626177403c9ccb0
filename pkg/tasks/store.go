package tasks

import (
	"context"
	"database/sql"
	"time"

	"github.com/goran-ethernal/BlockPipe/pkg/entity"
)

// Store defines the task state persistence used by the pipeline services.
// Every operation is scoped to the network the store was created for.
type Store interface {
	// AddTask inserts the task unless a row for (entity, entity_id) already exists.
	// It reports whether a row was inserted.
	AddTask(ctx context.Context, task *ProcessingTask) (bool, error)

	// LockAndRead reads a task under an exclusive lock held until tx ends.
	// It returns nil, nil when the task does not exist.
	LockAndRead(ctx context.Context, tx *sql.Tx, kind entity.Kind, id uint64) (*ProcessingTask, error)

	// IncrementAttempts atomically increments the attempts counter outside any transaction.
	IncrementAttempts(ctx context.Context, kind entity.Kind, id uint64) error

	// MarkProcessed sets status processed and the finish timestamp inside tx.
	MarkProcessed(ctx context.Context, tx *sql.Tx, task *ProcessingTask) error

	// ListUnprocessed returns up to limit not_processed tasks with entity_id >= fromID, ascending.
	ListUnprocessed(ctx context.Context, kind entity.Kind, fromID uint64, limit int) ([]*ProcessingTask, error)

	// ListStalled returns up to limit unfinished not_processed tasks started before olderThan.
	ListStalled(ctx context.Context, kind entity.Kind, olderThan time.Time, limit int) ([]*ProcessingTask, error)

	// Cancel moves a not_processed task to cancelled.
	Cancel(ctx context.Context, kind entity.Kind, id uint64) error

	// GetTask returns a task without locking it, or ErrTaskNotFound.
	GetTask(ctx context.Context, kind entity.Kind, id uint64) (*ProcessingTask, error)

	// LastEntityID returns the watermark and whether one has been stored.
	LastEntityID(ctx context.Context, kind entity.Kind) (uint64, bool, error)

	// UpsertWatermark stores id as the watermark unless a higher one is already stored.
	UpsertWatermark(ctx context.Context, kind entity.Kind, id uint64) error

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}
