package taskstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/db"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/entity"
	"github.com/goran-ethernal/BlockPipe/pkg/tasks"
)

// Compile-time check to ensure Store implements tasks.Store interface.
var _ tasks.Store = (*Store)(nil)

const (
	tasksTable = "processing_tasks"
	stateTable = "processing_state"
)

// Store is the SQL implementation of tasks.Store.
type Store struct {
	db          *sql.DB
	dialect     db.Dialect
	networkID   int64
	log         *logger.Logger
	maintenance db.Maintenance
}

// New creates a task store bound to networkID.
func New(database *sql.DB, dialect db.Dialect, networkID int64,
	maintenance db.Maintenance, log *logger.Logger) *Store {
	if maintenance == nil {
		maintenance = &db.NoOpMaintenance{}
	}

	return &Store{
		db:          database,
		dialect:     dialect,
		networkID:   networkID,
		log:         log.WithComponent(common.ComponentTaskStore),
		maintenance: maintenance,
	}
}

// AddTask inserts the task unless a row for (entity, entity_id, network) already exists.
func (s *Store) AddTask(ctx context.Context, task *tasks.ProcessingTask) (bool, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	if task.Status == "" {
		task.Status = tasks.StatusNotProcessed
	}
	if task.StartTimestamp == 0 {
		task.StartTimestamp = time.Now().UnixMilli()
	}
	task.NetworkID = s.networkID

	var data any
	if task.Data != "" {
		data = task.Data
	}

	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		INSERT INTO processing_tasks
			(network_id, entity, entity_id, collect_uid, status, attempts, data, start_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (entity, entity_id, network_id) DO NOTHING`),
		s.networkID, task.Entity.String(), task.EntityID, task.CollectUID,
		string(task.Status), task.Attempts, data, task.StartTimestamp,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add task %s %d: %w", task.Entity, task.EntityID, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if inserted == 0 {
		s.log.Debugw("task already exists", "entity", task.Entity, "entity_id", task.EntityID)
		return false, nil
	}

	taskInserts.Inc()
	return true, nil
}

// LockAndRead reads a task under an exclusive lock held until tx ends.
// On Postgres the row is locked with FOR UPDATE. SQLite transactions are opened
// with BEGIN IMMEDIATE, so tx already holds the database write lock.
func (s *Store) LockAndRead(ctx context.Context, tx *sql.Tx, kind entity.Kind, id uint64) (*tasks.ProcessingTask, error) {
	var task tasks.ProcessingTask
	err := s.dialect.Meddler().QueryRow(tx, &task, s.dialect.Rebind(`
		SELECT * FROM processing_tasks
		WHERE entity = ? AND entity_id = ? AND network_id = ?`)+s.dialect.ForUpdate(),
		kind.String(), id, s.networkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock task %s %d: %w", kind, id, err)
	}

	return &task, nil
}

// IncrementAttempts atomically increments the attempts counter.
func (s *Store) IncrementAttempts(ctx context.Context, kind entity.Kind, id uint64) error {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		UPDATE processing_tasks SET attempts = attempts + 1
		WHERE entity = ? AND entity_id = ? AND network_id = ?`),
		kind.String(), id, s.networkID)
	if err != nil {
		return fmt.Errorf("failed to increment attempts of %s %d: %w", kind, id, err)
	}

	return nil
}

// MarkProcessed sets status processed and the finish timestamp inside tx.
func (s *Store) MarkProcessed(ctx context.Context, tx *sql.Tx, task *tasks.ProcessingTask) error {
	finished := time.Now().UnixMilli()

	_, err := tx.ExecContext(ctx, s.dialect.Rebind(`
		UPDATE processing_tasks SET status = ?, finish_timestamp = ?
		WHERE id = ?`),
		string(tasks.StatusProcessed), finished, task.ID)
	if err != nil {
		return fmt.Errorf("failed to mark task %s %d processed: %w", task.Entity, task.EntityID, err)
	}

	task.Status = tasks.StatusProcessed
	task.FinishTimestamp = &finished

	return nil
}

// ListUnprocessed returns up to limit not_processed tasks with entity_id >= fromID, ascending.
func (s *Store) ListUnprocessed(ctx context.Context, kind entity.Kind,
	fromID uint64, limit int) ([]*tasks.ProcessingTask, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	var result []*tasks.ProcessingTask
	err := s.dialect.Meddler().QueryAll(s.db, &result, s.dialect.Rebind(`
		SELECT * FROM processing_tasks
		WHERE entity = ? AND network_id = ? AND status = ? AND entity_id >= ?
		ORDER BY entity_id ASC
		LIMIT ?`),
		kind.String(), s.networkID, string(tasks.StatusNotProcessed), fromID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed %s tasks: %w", kind, err)
	}

	return result, nil
}

// ListStalled returns up to limit unfinished not_processed tasks started before olderThan.
func (s *Store) ListStalled(ctx context.Context, kind entity.Kind,
	olderThan time.Time, limit int) ([]*tasks.ProcessingTask, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	var result []*tasks.ProcessingTask
	err := s.dialect.Meddler().QueryAll(s.db, &result, s.dialect.Rebind(`
		SELECT * FROM processing_tasks
		WHERE entity = ? AND network_id = ? AND status = ?
			AND finish_timestamp IS NULL AND start_timestamp < ?
		ORDER BY entity_id ASC
		LIMIT ?`),
		kind.String(), s.networkID, string(tasks.StatusNotProcessed), olderThan.UnixMilli(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stalled %s tasks: %w", kind, err)
	}

	return result, nil
}

// Cancel moves a not_processed task to cancelled.
func (s *Store) Cancel(ctx context.Context, kind entity.Kind, id uint64) error {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		UPDATE processing_tasks SET status = ?, finish_timestamp = ?
		WHERE entity = ? AND entity_id = ? AND network_id = ? AND status = ?`),
		string(tasks.StatusCancelled), time.Now().UnixMilli(),
		kind.String(), id, s.networkID, string(tasks.StatusNotProcessed))
	if err != nil {
		return fmt.Errorf("failed to cancel task %s %d: %w", kind, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		s.log.Infow("task cancelled", "entity", kind, "entity_id", id)
		return nil
	}

	if _, err := s.getTask(ctx, kind, id); err != nil {
		return err
	}

	return tasks.ErrTaskNotCancellable
}

// GetTask returns a task without locking it.
func (s *Store) GetTask(ctx context.Context, kind entity.Kind, id uint64) (*tasks.ProcessingTask, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	return s.getTask(ctx, kind, id)
}

func (s *Store) getTask(_ context.Context, kind entity.Kind, id uint64) (*tasks.ProcessingTask, error) {
	var task tasks.ProcessingTask
	err := s.dialect.Meddler().QueryRow(s.db, &task, s.dialect.Rebind(`
		SELECT * FROM processing_tasks
		WHERE entity = ? AND entity_id = ? AND network_id = ?`),
		kind.String(), id, s.networkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tasks.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s %d: %w", kind, id, err)
	}

	return &task, nil
}

// LastEntityID returns the watermark and whether one has been stored.
func (s *Store) LastEntityID(ctx context.Context, kind entity.Kind) (uint64, bool, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	var state tasks.ProcessingState
	err := s.dialect.Meddler().QueryRow(s.db, &state, s.dialect.Rebind(`
		SELECT * FROM processing_state WHERE entity = ? AND network_id = ?`),
		kind.String(), s.networkID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get %s watermark: %w", kind, err)
	}

	return state.EntityID, true, nil
}

// UpsertWatermark stores id as the watermark unless a higher one is already stored.
func (s *Store) UpsertWatermark(ctx context.Context, kind entity.Kind, id uint64) error {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	query := fmt.Sprintf(`
		INSERT INTO processing_state (entity, network_id, entity_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (entity, network_id) DO UPDATE
		SET entity_id = %s(processing_state.entity_id, excluded.entity_id),
			updated_at = excluded.updated_at`, s.dialect.Greatest())

	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(query),
		kind.String(), s.networkID, id, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert %s watermark to %d: %w", kind, id, err)
	}

	watermark.WithLabelValues(kind.String()).Set(float64(id))
	s.log.Debugw("watermark updated", "entity", kind, "entity_id", id)

	return nil
}

// WithTx runs fn in a transaction, committing when fn returns nil.
// Maintenance is held off until the transaction ends.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Errorw("failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
