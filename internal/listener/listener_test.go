package listener

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/db"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/internal/migrations"
	"github.com/goran-ethernal/BlockPipe/internal/queue"
	"github.com/goran-ethernal/BlockPipe/internal/taskstore"
	"github.com/goran-ethernal/BlockPipe/pkg/config"
	"github.com/goran-ethernal/BlockPipe/pkg/entity"
	pkglistener "github.com/goran-ethernal/BlockPipe/pkg/listener"
	"github.com/goran-ethernal/BlockPipe/pkg/tasks"
	"github.com/stretchr/testify/require"
)

var testQueues = config.QueueNames{Sensor: "sensor", Processor: "processor", Writer: "writer"}

type fixture struct {
	listener *Listener
	store    *taskstore.Store
	broker   *queue.Memory
}

func newFixture(t *testing.T, cfg config.ListenerConfig) *fixture {
	t.Helper()

	dbCfg := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "listener.db")}
	dbCfg.ApplyDefaults()

	database, dialect, err := db.Open(dbCfg)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	log := logger.NewNopLogger()
	require.NoError(t, migrations.RunMigrations(log, database, dialect))

	broker := queue.NewMemory(log)
	require.NoError(t, broker.DeclareQueues(context.Background(), testQueues.Sensor, testQueues.Processor))
	t.Cleanup(func() { broker.Close() })

	if cfg.ChunkPause.Duration == 0 {
		cfg.ChunkPause = common.NewDuration(time.Millisecond)
	}
	if cfg.RestartPause.Duration == 0 {
		cfg.RestartPause = common.NewDuration(time.Millisecond)
	}
	cfg.ApplyDefaults()

	store := taskstore.New(database, dialect, 1, nil, log)

	return &fixture{
		listener: New(cfg, testQueues, store, broker, log),
		store:    store,
		broker:   broker,
	}
}

func (f *fixture) published(t *testing.T) []tasks.TaskMessage {
	t.Helper()

	var out []tasks.TaskMessage
	for _, body := range f.broker.Messages(testQueues.Processor) {
		var msg tasks.TaskMessage
		require.NoError(t, json.Unmarshal(body, &msg))
		out = append(out, msg)
	}
	return out
}

func (f *fixture) watermark(t *testing.T) (uint64, bool) {
	t.Helper()

	id, found, err := f.store.LastEntityID(context.Background(), entity.Block)
	require.NoError(t, err)
	return id, found
}

func TestListener_ProcessOne(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{})
	ctx := context.Background()

	require.NoError(t, f.listener.ProcessOne(ctx, 5))

	msgs := f.published(t)
	require.Len(t, msgs, 1)
	require.Equal(t, uint64(5), msgs[0].EntityID)
	require.NotEmpty(t, msgs[0].CollectUID)

	task, err := f.store.GetTask(ctx, entity.Block, 5)
	require.NoError(t, err)
	require.Equal(t, msgs[0].CollectUID, task.CollectUID)

	// manual processing leaves the watermark alone
	_, found := f.watermark(t)
	require.False(t, found)

	// enqueueing again publishes nothing
	require.NoError(t, f.listener.ProcessOne(ctx, 5))
	require.Len(t, f.published(t), 1)
}

func TestListener_InvalidRange(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{})

	err := f.listener.ProcessRange(context.Background(), 6, 5)
	require.ErrorIs(t, err, pkglistener.ErrInvalidRange)
	require.Empty(t, f.published(t))
}

func TestListener_FillAlignsChunks(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{ChunkSize: 10})
	ctx := context.Background()

	require.NoError(t, f.listener.Fill(ctx, 7, 25, true))

	msgs := f.published(t)
	require.Len(t, msgs, 19)
	for i, msg := range msgs {
		require.Equal(t, uint64(7+i), msg.EntityID)
	}

	watermark, found := f.watermark(t)
	require.True(t, found)
	require.Equal(t, uint64(25), watermark)

	require.Equal(t, uint64(10), f.listener.chunkEnd(7))
	require.Equal(t, uint64(10), f.listener.chunkEnd(10))
	require.Equal(t, uint64(20), f.listener.chunkEnd(11))
}

func TestListener_OnFrontier(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{StartBlock: 100, ChunkSize: 4})
	ctx := context.Background()

	require.NoError(t, f.listener.OnFrontier(ctx, 110))
	require.Eventually(t, func() bool {
		id, found := f.watermark(t)
		return found && id == 110
	}, 5*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool { return !f.listener.filling.Load() }, time.Second, 5*time.Millisecond)
	require.Len(t, f.published(t), 11)

	// an older frontier is a no-op
	require.NoError(t, f.listener.OnFrontier(ctx, 105))
	require.Equal(t, uint64(110), f.listener.LastObservedFrontier())

	require.NoError(t, f.listener.OnFrontier(ctx, 112))
	require.Eventually(t, func() bool {
		id, _ := f.watermark(t)
		return id == 112
	}, 5*time.Second, 10*time.Millisecond)

	f.listener.fills.Wait()
	msgs := f.published(t)
	require.Len(t, msgs, 13)
	require.Equal(t, uint64(111), msgs[11].EntityID)
	require.Equal(t, uint64(112), msgs[12].EntityID)
}

func TestListener_FillInProgress(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{
		ChunkSize:  1,
		ChunkPause: common.NewDuration(50 * time.Millisecond),
	})
	ctx := context.Background()

	require.NoError(t, f.listener.OnFrontier(ctx, 5))
	require.Eventually(t, func() bool { return f.listener.filling.Load() }, time.Second, time.Millisecond)

	require.ErrorIs(t, f.listener.ProcessOne(ctx, 100), pkglistener.ErrFillInProgress)

	// coalesced into the running fill
	require.NoError(t, f.listener.OnFrontier(ctx, 6))
	require.Equal(t, uint64(6), f.listener.LastObservedFrontier())

	f.listener.fills.Wait()
	watermark, _ := f.watermark(t)
	require.Equal(t, uint64(5), watermark)
}

func TestListener_PauseResume(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{
		ChunkSize:  2,
		ChunkPause: common.NewDuration(20 * time.Millisecond),
	})
	ctx := context.Background()

	require.NoError(t, f.listener.OnFrontier(ctx, 9))
	require.Eventually(t, func() bool {
		_, found := f.watermark(t)
		return found
	}, time.Second, time.Millisecond)

	f.listener.Pause()
	require.True(t, f.listener.IsPaused())

	// notifications are dropped while paused
	require.NoError(t, f.listener.OnFrontier(ctx, 20))

	time.Sleep(100 * time.Millisecond)
	paused, _ := f.watermark(t)
	require.Less(t, paused, uint64(9))

	status, err := f.listener.Status(ctx)
	require.NoError(t, err)
	require.True(t, status.Paused)
	require.True(t, status.Filling)
	require.Equal(t, uint64(20), status.Frontier)

	f.listener.Resume()
	f.listener.fills.Wait()

	watermark, _ := f.watermark(t)
	require.Equal(t, uint64(9), watermark)

	msgs := f.published(t)
	require.Len(t, msgs, 9)
	for i, msg := range msgs {
		require.Equal(t, uint64(i+1), msg.EntityID)
	}
}

func TestListener_CancelStopsBetweenChunks(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{
		ChunkSize:  5,
		ChunkPause: common.NewDuration(time.Hour),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.listener.Fill(ctx, 1, 100, true) }()

	require.Eventually(t, func() bool {
		_, found := f.watermark(t)
		return found
	}, time.Second, time.Millisecond)
	cancel()

	require.ErrorIs(t, <-done, context.Canceled)

	watermark, _ := f.watermark(t)
	require.Equal(t, uint64(5), watermark)
	require.Len(t, f.published(t), 5)
}

func TestListener_RestartUnprocessed(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{ChunkSize: 2})
	ctx := context.Background()

	for id := uint64(1); id <= 5; id++ {
		_, err := f.store.AddTask(ctx, tasks.NewTask(entity.Block, id, "uid"))
		require.NoError(t, err)
	}
	require.NoError(t, f.store.Cancel(ctx, entity.Block, 2))

	require.NoError(t, f.listener.RestartUnprocessed(ctx, entity.Block))

	msgs := f.published(t)
	ids := make([]uint64, 0, len(msgs))
	for _, msg := range msgs {
		ids = append(ids, msg.EntityID)
		require.Equal(t, "uid", msg.CollectUID)
	}
	require.Equal(t, []uint64{1, 3, 4, 5}, ids)
	require.False(t, f.listener.restarting.Load())
}

func TestListener_RestartIncludesFirstID(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{ChunkSize: 2})
	ctx := context.Background()

	for id := uint64(0); id <= 4; id++ {
		_, err := f.store.AddTask(ctx, tasks.NewTask(entity.Block, id, "uid"))
		require.NoError(t, err)
	}

	require.NoError(t, f.listener.RestartUnprocessed(ctx, entity.Block))

	ids := make([]uint64, 0, 5)
	for _, msg := range f.published(t) {
		ids = append(ids, msg.EntityID)
	}
	require.Equal(t, []uint64{0, 1, 2, 3, 4}, ids)
}

func TestListener_RestartShortPageReturns(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{
		ChunkSize:    10,
		RestartPause: common.NewDuration(time.Hour),
	})
	ctx := context.Background()

	for id := uint64(1); id <= 3; id++ {
		_, err := f.store.AddTask(ctx, tasks.NewTask(entity.Block, id, "uid"))
		require.NoError(t, err)
	}

	done := make(chan error, 1)
	go func() { done <- f.listener.RestartUnprocessed(ctx, entity.Block) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("restart waited for the pause after the last page")
	}
	require.Len(t, f.published(t), 3)
}

func TestListener_DefaultStartBlock(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{})
	ctx := context.Background()

	require.NoError(t, f.listener.OnFrontier(ctx, 2))
	f.listener.fills.Wait()

	msgs := f.published(t)
	require.Len(t, msgs, 2)
	require.Equal(t, uint64(1), msgs[0].EntityID)
	require.Equal(t, uint64(2), msgs[1].EntityID)
}

func TestListener_RestartInProgress(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{})
	f.listener.restarting.Store(true)

	err := f.listener.RestartUnprocessed(context.Background(), entity.Block)
	require.ErrorIs(t, err, pkglistener.ErrRestartInProgress)
}

func TestListener_Run(t *testing.T) {
	f := newFixture(t, config.ListenerConfig{StartBlock: 1})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.listener.Run(ctx) }()

	require.NoError(t, f.broker.Publish(ctx, testQueues.Sensor, map[string]any{"entity_id": "3"}))
	require.NoError(t, f.broker.Publish(ctx, testQueues.Sensor, []byte("not json")))

	require.Eventually(t, func() bool {
		id, found := f.watermark(t)
		return found && id == 3
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.Len(t, f.published(t), 3)
}
