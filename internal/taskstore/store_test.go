package taskstore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/db"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/internal/migrations"
	"github.com/goran-ethernal/BlockPipe/pkg/config"
	"github.com/goran-ethernal/BlockPipe/pkg/entity"
	"github.com/goran-ethernal/BlockPipe/pkg/tasks"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, networkID int64) (*Store, *sql.DB) {
	t.Helper()

	cfg := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "tasks.db")}
	cfg.ApplyDefaults()

	database, dialect, err := db.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	log := logger.NewNopLogger()
	require.NoError(t, migrations.RunMigrations(log, database, dialect))

	return New(database, dialect, networkID, nil, log), database
}

func TestStore_AddTaskIdempotent(t *testing.T) {
	store, _ := newTestStore(t, 1)
	ctx := context.Background()

	inserted, err := store.AddTask(ctx, tasks.NewTask(entity.Block, 10, "first"))
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = store.AddTask(ctx, tasks.NewTask(entity.Block, 10, "second"))
	require.NoError(t, err)
	require.False(t, inserted)

	task, err := store.GetTask(ctx, entity.Block, 10)
	require.NoError(t, err)
	require.Equal(t, "first", task.CollectUID)
	require.Equal(t, tasks.StatusNotProcessed, task.Status)
	require.Equal(t, int64(1), task.NetworkID)
	require.Nil(t, task.FinishTimestamp)
	require.Empty(t, task.Data)
}

func TestStore_NetworkIsolation(t *testing.T) {
	store, database := newTestStore(t, 1)
	other := New(database, db.SQLite, 2, nil, logger.NewNopLogger())
	ctx := context.Background()

	inserted, err := store.AddTask(ctx, tasks.NewTask(entity.Block, 5, "a"))
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = other.AddTask(ctx, tasks.NewTask(entity.Block, 5, "b"))
	require.NoError(t, err)
	require.True(t, inserted)

	require.NoError(t, store.UpsertWatermark(ctx, entity.Block, 5))
	_, found, err := other.LastEntityID(ctx, entity.Block)
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_LockAndRead(t *testing.T) {
	store, _ := newTestStore(t, 1)
	ctx := context.Background()

	_, err := store.AddTask(ctx, tasks.NewTask(entity.Block, 1, "uid"))
	require.NoError(t, err)

	err = store.WithTx(ctx, func(tx *sql.Tx) error {
		task, err := store.LockAndRead(ctx, tx, entity.Block, 1)
		require.NoError(t, err)
		require.NotNil(t, task)
		require.Equal(t, uint64(1), task.EntityID)

		missing, err := store.LockAndRead(ctx, tx, entity.Block, 2)
		require.NoError(t, err)
		require.Nil(t, missing)

		return store.MarkProcessed(ctx, tx, task)
	})
	require.NoError(t, err)

	task, err := store.GetTask(ctx, entity.Block, 1)
	require.NoError(t, err)
	require.Equal(t, tasks.StatusProcessed, task.Status)
	_, finished := task.FinishedAt()
	require.True(t, finished)
}

func TestStore_WithTxRollback(t *testing.T) {
	store, _ := newTestStore(t, 1)
	ctx := context.Background()

	_, err := store.AddTask(ctx, tasks.NewTask(entity.Block, 1, "uid"))
	require.NoError(t, err)

	errBoom := errors.New("boom")
	err = store.WithTx(ctx, func(tx *sql.Tx) error {
		task, err := store.LockAndRead(ctx, tx, entity.Block, 1)
		require.NoError(t, err)
		require.NoError(t, store.MarkProcessed(ctx, tx, task))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	task, err := store.GetTask(ctx, entity.Block, 1)
	require.NoError(t, err)
	require.Equal(t, tasks.StatusNotProcessed, task.Status)
}

func TestStore_LockSerialisesTransactions(t *testing.T) {
	store, _ := newTestStore(t, 1)
	ctx := context.Background()

	_, err := store.AddTask(ctx, tasks.NewTask(entity.Block, 1, "uid"))
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		processed int
	)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.WithTx(ctx, func(tx *sql.Tx) error {
				task, err := store.LockAndRead(ctx, tx, entity.Block, 1)
				if err != nil {
					return err
				}
				if task.Status != tasks.StatusNotProcessed {
					return nil
				}
				mu.Lock()
				processed++
				mu.Unlock()
				return store.MarkProcessed(ctx, tx, task)
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, processed)
}

func TestStore_IncrementAttempts(t *testing.T) {
	store, _ := newTestStore(t, 1)
	ctx := context.Background()

	_, err := store.AddTask(ctx, tasks.NewTask(entity.Block, 3, "uid"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, store.IncrementAttempts(ctx, entity.Block, 3))
		}()
	}
	wg.Wait()

	task, err := store.GetTask(ctx, entity.Block, 3)
	require.NoError(t, err)
	require.Equal(t, 5, task.Attempts)

	// absent ids are a no-op
	require.NoError(t, store.IncrementAttempts(ctx, entity.Block, 99))
}

func TestStore_ListUnprocessed(t *testing.T) {
	store, _ := newTestStore(t, 1)
	ctx := context.Background()

	for id := uint64(1); id <= 6; id++ {
		_, err := store.AddTask(ctx, tasks.NewTask(entity.Block, id, "uid"))
		require.NoError(t, err)
	}

	err := store.WithTx(ctx, func(tx *sql.Tx) error {
		task, err := store.LockAndRead(ctx, tx, entity.Block, 2)
		require.NoError(t, err)
		return store.MarkProcessed(ctx, tx, task)
	})
	require.NoError(t, err)

	page, err := store.ListUnprocessed(ctx, entity.Block, 0, 3)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3, 4}, entityIDs(page))

	page, err = store.ListUnprocessed(ctx, entity.Block, 5, 3)
	require.NoError(t, err)
	require.Equal(t, []uint64{5, 6}, entityIDs(page))

	page, err = store.ListUnprocessed(ctx, entity.Block, 7, 3)
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestStore_ListStalled(t *testing.T) {
	store, _ := newTestStore(t, 1)
	ctx := context.Background()

	old := tasks.NewTask(entity.Block, 1, "old")
	old.StartTimestamp = time.Now().Add(-2 * time.Hour).UnixMilli()
	_, err := store.AddTask(ctx, old)
	require.NoError(t, err)

	_, err = store.AddTask(ctx, tasks.NewTask(entity.Block, 2, "fresh"))
	require.NoError(t, err)

	stalled, err := store.ListStalled(ctx, entity.Block, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, entityIDs(stalled))
}

func TestStore_Cancel(t *testing.T) {
	store, _ := newTestStore(t, 1)
	ctx := context.Background()

	_, err := store.AddTask(ctx, tasks.NewTask(entity.Block, 1, "uid"))
	require.NoError(t, err)

	require.NoError(t, store.Cancel(ctx, entity.Block, 1))
	task, err := store.GetTask(ctx, entity.Block, 1)
	require.NoError(t, err)
	require.Equal(t, tasks.StatusCancelled, task.Status)

	require.ErrorIs(t, store.Cancel(ctx, entity.Block, 1), tasks.ErrTaskNotCancellable)
	require.ErrorIs(t, store.Cancel(ctx, entity.Block, 2), tasks.ErrTaskNotFound)

	unprocessed, err := store.ListUnprocessed(ctx, entity.Block, 0, 10)
	require.NoError(t, err)
	require.Empty(t, unprocessed)
}

func TestStore_WatermarkMonotonic(t *testing.T) {
	store, _ := newTestStore(t, 1)
	ctx := context.Background()

	_, found, err := store.LastEntityID(ctx, entity.Block)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.UpsertWatermark(ctx, entity.Block, 1000))
	require.NoError(t, store.UpsertWatermark(ctx, entity.Block, 2000))
	require.NoError(t, store.UpsertWatermark(ctx, entity.Block, 1500))

	last, found, err := store.LastEntityID(ctx, entity.Block)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(2000), last)
}

func entityIDs(list []*tasks.ProcessingTask) []uint64 {
	ids := make([]uint64, 0, len(list))
	for _, task := range list {
		ids = append(ids, task.EntityID)
	}
	return ids
}
