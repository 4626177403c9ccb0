package monitor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/blockstore"
	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/db"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/internal/migrations"
	"github.com/goran-ethernal/BlockPipe/internal/monitor/mocks"
	"github.com/goran-ethernal/BlockPipe/internal/taskstore"
	alertmocks "github.com/goran-ethernal/BlockPipe/pkg/alert/mocks"
	"github.com/goran-ethernal/BlockPipe/pkg/block"
	"github.com/goran-ethernal/BlockPipe/pkg/config"
	"github.com/goran-ethernal/BlockPipe/pkg/entity"
	pkglistener "github.com/goran-ethernal/BlockPipe/pkg/listener"
	"github.com/goran-ethernal/BlockPipe/pkg/sli"
	slimocks "github.com/goran-ethernal/BlockPipe/pkg/sli/mocks"
	"github.com/goran-ethernal/BlockPipe/pkg/tasks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	monitor    *Monitor
	db         *sql.DB
	blocks     *blockstore.Store
	tasks      *taskstore.Store
	frontier   *mocks.FrontierSource
	remediator *mocks.Remediator
	notifier   *alertmocks.Notifier
	recorder   *slimocks.Recorder
}

func newFixture(t *testing.T, cfg config.MonitorConfig, startBlock uint64) *fixture {
	t.Helper()

	dbCfg := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "monitor.db")}
	dbCfg.ApplyDefaults()

	database, dialect, err := db.Open(dbCfg)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	log := logger.NewNopLogger()
	require.NoError(t, migrations.RunMigrations(log, database, dialect))

	cfg.ApplyDefaults()

	f := &fixture{
		db:         database,
		blocks:     blockstore.New(database, dialect, 1, nil, log),
		tasks:      taskstore.New(database, dialect, 1, nil, log),
		frontier:   mocks.NewFrontierSource(t),
		remediator: mocks.NewRemediator(t),
		notifier:   alertmocks.NewNotifier(t),
		recorder:   slimocks.NewRecorder(t),
	}
	f.monitor = New(cfg, startBlock, f.frontier, f.remediator, f.blocks, f.tasks, f.notifier, f.recorder, log)

	return f
}

func (f *fixture) saveBlocks(t *testing.T, heights ...uint64) {
	t.Helper()

	for _, height := range heights {
		tx, err := f.db.Begin()
		require.NoError(t, err)
		require.NoError(t, f.blocks.Save(context.Background(), tx, &block.WriterMessage{
			EntityID: block.Uint64(height),
			Block: &block.Block{
				Height:    block.Uint64(height),
				BlockID:   fmt.Sprintf("block-%d", height),
				BlockTime: block.NewTimestamp(time.Now()),
			},
		}))
		require.NoError(t, tx.Commit())
	}
}

func metricNamed(name string, value float64) any {
	return mock.MatchedBy(func(m sli.Metric) bool {
		return m.Name == name && m.Value == value
	})
}

func TestMonitor_CheckMissing(t *testing.T) {
	f := newFixture(t, config.MonitorConfig{MissingTailOffset: 2}, 1)
	f.saveBlocks(t, 1, 2, 4, 5)
	ctx := context.Background()

	f.notifier.EXPECT().Notify(mock.Anything, "Missing blocks between 1 and 3: [3]").Return(nil).Once()
	f.recorder.EXPECT().Record(mock.Anything, metricNamed(sli.MissedCount, 1)).Once()
	f.remediator.EXPECT().RestartUnprocessed(mock.Anything, entity.Block).Return(nil).Once()

	require.NoError(t, f.monitor.CheckMissing(ctx))
}

func TestMonitor_CheckMissing_NoGaps(t *testing.T) {
	f := newFixture(t, config.MonitorConfig{MissingTailOffset: 2}, 1)
	ctx := context.Background()

	// nothing stored yet
	require.NoError(t, f.monitor.CheckMissing(ctx))

	// gaps inside the tail are still in flight
	f.saveBlocks(t, 1, 2, 3, 5)
	require.NoError(t, f.monitor.CheckMissing(ctx))
}

func TestMonitor_CheckMissing_Window(t *testing.T) {
	f := newFixture(t, config.MonitorConfig{MissingWindow: 3, MissingTailOffset: 1}, 0)
	f.saveBlocks(t, 1, 5, 6, 8, 9)

	f.notifier.EXPECT().Notify(mock.Anything, "Missing blocks between 6 and 8: [7]").Return(nil).Once()
	f.recorder.EXPECT().Record(mock.Anything, metricNamed(sli.MissedCount, 1)).Once()
	f.remediator.EXPECT().RestartUnprocessed(mock.Anything, entity.Block).
		Return(pkglistener.ErrRestartInProgress).Once()

	require.NoError(t, f.monitor.CheckMissing(context.Background()))
}

func TestMonitor_CheckMissing_RemediationFails(t *testing.T) {
	f := newFixture(t, config.MonitorConfig{MissingTailOffset: 1}, 1)
	f.saveBlocks(t, 1, 3, 4)

	f.notifier.EXPECT().Notify(mock.Anything, mock.Anything).Return(errors.New("slack down")).Once()
	f.recorder.EXPECT().Record(mock.Anything, mock.Anything).Once()
	f.remediator.EXPECT().RestartUnprocessed(mock.Anything, entity.Block).Return(errors.New("broker down")).Once()

	require.ErrorContains(t, f.monitor.CheckMissing(context.Background()), "broker down")
}

func TestMonitor_CheckSync(t *testing.T) {
	f := newFixture(t, config.MonitorConfig{}, 25)
	ctx := context.Background()

	f.frontier.EXPECT().LastObservedFrontier().Return(30).Once()
	// nothing stored, measured from the block before start
	require.NoError(t, f.monitor.CheckSync(ctx))

	f.saveBlocks(t, 20)

	f.frontier.EXPECT().LastObservedFrontier().Return(30).Once()
	require.NoError(t, f.monitor.CheckSync(ctx))

	f.frontier.EXPECT().LastObservedFrontier().Return(35).Once()
	f.notifier.EXPECT().Notify(mock.Anything,
		"Blocks are out of sync: last stored block 20, last observed block 35, diff 15").Return(nil).Once()
	f.recorder.EXPECT().Record(mock.Anything, mock.MatchedBy(func(m sli.Metric) bool {
		return m.Name == sli.SyncDiffCount && m.Entity == "block" && m.EntityID == nil && m.Value == 15
	})).Once()
	require.NoError(t, f.monitor.CheckSync(ctx))
}

func TestMonitor_CheckSync_NothingStored(t *testing.T) {
	f := newFixture(t, config.MonitorConfig{}, 1)
	ctx := context.Background()

	f.frontier.EXPECT().LastObservedFrontier().Return(0).Once()
	require.NoError(t, f.monitor.CheckSync(ctx))

	f.frontier.EXPECT().LastObservedFrontier().Return(20).Once()
	f.notifier.EXPECT().Notify(mock.Anything,
		"Blocks are out of sync: last stored block 0, last observed block 20, diff 20").Return(nil).Once()
	f.recorder.EXPECT().Record(mock.Anything, metricNamed(sli.SyncDiffCount, 20)).Once()
	require.NoError(t, f.monitor.CheckSync(ctx))
}

func TestMonitor_CheckDuplicates(t *testing.T) {
	f := newFixture(t, config.MonitorConfig{}, 0)
	ctx := context.Background()

	f.saveBlocks(t, 1, 2, 3)
	require.NoError(t, f.monitor.CheckDuplicates(ctx))

	f.saveBlocks(t, 2, 3, 3)

	f.notifier.EXPECT().Notify(mock.Anything, "Duplicate blocks: [2 3]").Return(nil).Once()
	f.recorder.EXPECT().Record(mock.Anything, metricNamed(sli.DuplicatesCount, 2)).Once()
	require.NoError(t, f.monitor.CheckDuplicates(ctx))
}

func TestMonitor_CheckStalled(t *testing.T) {
	f := newFixture(t, config.MonitorConfig{StaleAfter: common.NewDuration(time.Hour)}, 0)
	ctx := context.Background()

	old := tasks.NewTask(entity.Block, 1, "old")
	old.StartTimestamp = time.Now().Add(-2 * time.Hour).UnixMilli()
	_, err := f.tasks.AddTask(ctx, old)
	require.NoError(t, err)

	_, err = f.tasks.AddTask(ctx, tasks.NewTask(entity.Block, 2, "fresh"))
	require.NoError(t, err)

	f.notifier.EXPECT().Notify(mock.Anything, "Tasks not processed for more than 1h0m0s: [1]").Return(nil).Once()
	f.recorder.EXPECT().Record(mock.Anything, mock.MatchedBy(func(m sli.Metric) bool {
		return m.Entity == sli.EntityQueue && m.Name == sli.NotProcessedCount && m.Value == 1
	})).Once()
	require.NoError(t, f.monitor.CheckStalled(ctx))

	// cancelled tasks are not reported
	require.NoError(t, f.tasks.Cancel(ctx, entity.Block, 1))
	require.NoError(t, f.monitor.CheckStalled(ctx))
}

func TestMonitor_Run(t *testing.T) {
	interval := common.NewDuration(10 * time.Millisecond)
	f := newFixture(t, config.MonitorConfig{
		StalledInterval:    interval,
		SyncInterval:       interval,
		MissingInterval:    interval,
		DuplicatesInterval: interval,
	}, 0)
	f.saveBlocks(t, 1)

	synced := make(chan struct{}, 1)
	f.frontier.EXPECT().LastObservedFrontier().Run(func() {
		select {
		case synced <- struct{}{}:
		default:
		}
	}).Return(1).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.monitor.Run(ctx) }()

	select {
	case <-synced:
	case <-time.After(2 * time.Second):
		t.Fatal("sync check did not run")
	}

	cancel()
	require.NoError(t, <-done)
}
