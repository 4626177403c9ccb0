package writer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/block"
	"github.com/goran-ethernal/BlockPipe/pkg/entity"
	pkgqueue "github.com/goran-ethernal/BlockPipe/pkg/queue"
	"github.com/goran-ethernal/BlockPipe/pkg/sli"
	"github.com/goran-ethernal/BlockPipe/pkg/tasks"
)

// ErrMalformedPayload is returned for writer messages without a block.
var ErrMalformedPayload = errors.New("malformed writer payload")

// Outcome is the result of processing one writer message.
type Outcome int

const (
	// OutcomeFailed is returned together with an error.
	OutcomeFailed Outcome = iota
	// OutcomeWritten means the payload was stored and the task marked processed.
	OutcomeWritten
	// OutcomeAlreadyStored means the block existed, only the task was marked processed.
	OutcomeAlreadyStored
	// OutcomeDuplicate means the task was already finished by another delivery.
	OutcomeDuplicate
	// OutcomeTaskMissing means there is no task row for the entity id.
	OutcomeTaskMissing
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeWritten:
		return "written"
	case OutcomeAlreadyStored:
		return "already_stored"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeTaskMissing:
		return "task_missing"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// BlockStore persists block payloads inside a task transaction.
type BlockStore interface {
	Exists(ctx context.Context, tx *sql.Tx, height uint64) (bool, error)
	Save(ctx context.Context, tx *sql.Tx, msg *block.WriterMessage) error
}

// Writer persists fetched payloads and finishes their tasks, exactly once per
// entity id even under redelivery.
type Writer struct {
	tasks    tasks.Store
	blocks   BlockStore
	recorder sli.Recorder
	consumer pkgqueue.Consumer
	queue    string
	log      *logger.Logger

	now func() time.Time
}

// New creates a Writer consuming queue.
func New(taskStore tasks.Store, blocks BlockStore, recorder sli.Recorder,
	consumer pkgqueue.Consumer, queue string, log *logger.Logger) *Writer {
	return &Writer{
		tasks:    taskStore,
		blocks:   blocks,
		recorder: recorder,
		consumer: consumer,
		queue:    queue,
		log:      log.WithComponent(common.ComponentWriter),
		now:      time.Now,
	}
}

// Run consumes the writer queue until ctx is cancelled.
func (w *Writer) Run(ctx context.Context) error {
	w.log.Infow("writer started", "queue", w.queue)
	defer w.log.Info("writer stopped")

	return w.consumer.Consume(ctx, w.queue, func(ctx context.Context, body []byte) error {
		var msg block.WriterMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}

		_, err := w.Process(ctx, &msg)
		return err
	})
}

// Process stores msg and marks its task processed in a single transaction.
// Any error leaves the task not_processed and the domain tables untouched.
func (w *Writer) Process(ctx context.Context, msg *block.WriterMessage) (Outcome, error) {
	id := uint64(msg.EntityID)
	log := w.log.With("entity_id", id, "collect_uid", msg.CollectUID)

	if err := w.tasks.IncrementAttempts(ctx, entity.Block, id); err != nil {
		log.Errorw("failed to count attempt", "error", err)
		return OutcomeFailed, err
	}

	if msg.Block == nil {
		log.Error("writer message has no block")
		return OutcomeFailed, fmt.Errorf("%w: block %d has no block body", ErrMalformedPayload, id)
	}
	if err := msg.Block.Validate(); err != nil {
		log.Errorw("invalid block", "error", err)
		return OutcomeFailed, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if height := uint64(msg.Block.Height); height != id {
		log.Errorw("block height does not match task", "height", height)
		return OutcomeFailed, fmt.Errorf("%w: block height %d does not match task %d", ErrMalformedPayload, height, id)
	}

	var (
		outcome Outcome
		task    *tasks.ProcessingTask
	)

	// the transaction outlives shutdown so a started write is never cut in half
	txCtx := context.WithoutCancel(ctx)
	err := w.tasks.WithTx(txCtx, func(tx *sql.Tx) error {
		var err error
		task, err = w.tasks.LockAndRead(txCtx, tx, entity.Block, id)
		if err != nil {
			return err
		}

		switch {
		case task == nil:
			outcome = OutcomeTaskMissing
			return nil
		case task.Status != tasks.StatusNotProcessed:
			outcome = OutcomeDuplicate
			return nil
		}

		exists, err := w.blocks.Exists(txCtx, tx, id)
		if err != nil {
			return err
		}

		if exists {
			outcome = OutcomeAlreadyStored
		} else {
			if err := w.blocks.Save(txCtx, tx, msg); err != nil {
				return err
			}
			outcome = OutcomeWritten
		}

		return w.tasks.MarkProcessed(txCtx, tx, task)
	})
	if err != nil {
		outcomes.WithLabelValues(OutcomeFailed.String()).Inc()
		log.Errorw("failed to write block", "error", err)
		return OutcomeFailed, fmt.Errorf("failed to write block %d: %w", id, err)
	}

	outcomes.WithLabelValues(outcome.String()).Inc()

	switch outcome {
	case OutcomeTaskMissing:
		log.Warn("no task for block, skipping")
	case OutcomeDuplicate:
		log.Warnw("task already finished, skipping", "status", task.Status)
	case OutcomeAlreadyStored:
		log.Warnw("block already stored, task marked processed", "height", uint64(msg.Block.Height))
	case OutcomeWritten:
		w.recordTimings(ctx, task, msg.Block)
		log.Debugw("block written",
			"height", uint64(msg.Block.Height),
			"transactions", len(msg.Transactions),
			"events", len(msg.Events))
	}

	return outcome, nil
}

func (w *Writer) recordTimings(ctx context.Context, task *tasks.ProcessingTask, b *block.Block) {
	now := w.now()
	processTime := now.Sub(task.StartedAt()).Milliseconds()
	delayTime := now.Sub(b.BlockTime.Time()).Milliseconds()

	processTimeHist.Observe(float64(processTime))

	w.recorder.Record(ctx, sli.ForEntity(entity.Block.String(), task.EntityID, sli.ProcessTimeMs, float64(processTime)))
	w.recorder.Record(ctx, sli.ForEntity(entity.Block.String(), task.EntityID, sli.DelayTimeMs, float64(delayTime)))
}
