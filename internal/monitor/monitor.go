package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/alert"
	"github.com/goran-ethernal/BlockPipe/pkg/config"
	"github.com/goran-ethernal/BlockPipe/pkg/entity"
	pkglistener "github.com/goran-ethernal/BlockPipe/pkg/listener"
	"github.com/goran-ethernal/BlockPipe/pkg/sli"
	"github.com/goran-ethernal/BlockPipe/pkg/tasks"
	"golang.org/x/sync/errgroup"
)

// FrontierSource reports the newest id announced by the external sequence.
type FrontierSource interface {
	LastObservedFrontier() uint64
}

// Remediator re-enqueues unfinished work.
type Remediator interface {
	RestartUnprocessed(ctx context.Context, kind entity.Kind) error
}

// DomainStore answers consistency questions about persisted blocks.
type DomainStore interface {
	LastHeight(ctx context.Context) (uint64, bool, error)
	MissingHeights(ctx context.Context, from, to uint64, limit int) ([]uint64, error)
	DuplicateHeights(ctx context.Context, limit int) ([]uint64, error)
}

// StalledLister lists tasks that have been waiting too long.
type StalledLister interface {
	ListStalled(ctx context.Context, kind entity.Kind, olderThan time.Time, limit int) ([]*tasks.ProcessingTask, error)
}

// Monitor runs the periodic consistency checks. Checks only read, they never
// take the task lock.
type Monitor struct {
	cfg        config.MonitorConfig
	startBlock uint64

	frontier   FrontierSource
	remediator Remediator
	blocks     DomainStore
	tasks      StalledLister
	notifier   alert.Notifier
	recorder   sli.Recorder
	log        *logger.Logger

	now func() time.Time
}

// New creates a Monitor. startBlock bounds the missing check from below.
func New(cfg config.MonitorConfig, startBlock uint64,
	frontier FrontierSource, remediator Remediator,
	blocks DomainStore, taskStore StalledLister,
	notifier alert.Notifier, recorder sli.Recorder, log *logger.Logger) *Monitor {
	return &Monitor{
		cfg:        cfg,
		startBlock: startBlock,
		frontier:   frontier,
		remediator: remediator,
		blocks:     blocks,
		tasks:      taskStore,
		notifier:   notifier,
		recorder:   recorder,
		log:        log.WithComponent(common.ComponentMonitor),
		now:        time.Now,
	}
}

// Run starts the four check loops and blocks until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Infow("monitor started",
		"stalled_interval", m.cfg.StalledInterval.Duration,
		"sync_interval", m.cfg.SyncInterval.Duration,
		"missing_interval", m.cfg.MissingInterval.Duration,
		"duplicates_interval", m.cfg.DuplicatesInterval.Duration)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.loop(ctx, "stalled", m.cfg.StalledInterval.Duration, m.CheckStalled) })
	g.Go(func() error { return m.loop(ctx, "sync", m.cfg.SyncInterval.Duration, m.CheckSync) })
	g.Go(func() error { return m.loop(ctx, "missing", m.cfg.MissingInterval.Duration, m.CheckMissing) })
	g.Go(func() error { return m.loop(ctx, "duplicates", m.cfg.DuplicatesInterval.Duration, m.CheckDuplicates) })

	err := g.Wait()
	m.log.Info("monitor stopped")
	return err
}

func (m *Monitor) loop(ctx context.Context, name string, interval time.Duration, check func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			start := time.Now()
			err := check(ctx)
			checkDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

			if err != nil && !errors.Is(err, context.Canceled) {
				checkFailures.WithLabelValues(name).Inc()
				m.log.Errorw("check failed", "check", name, "error", err)
			}
		}
	}
}

// CheckSync compares the last stored height with the last observed frontier.
func (m *Monitor) CheckSync(ctx context.Context) error {
	last, found, err := m.blocks.LastHeight(ctx)
	if err != nil {
		return fmt.Errorf("failed to read last stored block: %w", err)
	}

	// nothing stored yet counts as being right before the start block
	if !found {
		last = 0
		if m.startBlock > 0 {
			last = m.startBlock - 1
		}
	}

	frontier := m.frontier.LastObservedFrontier()
	if frontier <= last {
		return nil
	}

	diff := frontier - last
	if diff <= m.cfg.SyncGapThreshold {
		return nil
	}

	findings.WithLabelValues("sync").Inc()
	m.log.Warnw("blocks are out of sync", "last_stored", last, "frontier", frontier, "diff", diff)
	m.alert(ctx, fmt.Sprintf("Blocks are out of sync: last stored block %d, last observed block %d, diff %d",
		last, frontier, diff))
	m.recorder.Record(ctx, sli.Metric{Entity: entity.Block.String(), Name: sli.SyncDiffCount, Value: float64(diff)})

	return nil
}

// CheckMissing looks for gaps in the recent window of stored heights and
// re-enqueues unfinished tasks when it finds any.
func (m *Monitor) CheckMissing(ctx context.Context) error {
	last, found, err := m.blocks.LastHeight(ctx)
	if err != nil {
		return fmt.Errorf("failed to read last stored block: %w", err)
	}
	if !found || last < m.cfg.MissingTailOffset {
		return nil
	}

	to := last - m.cfg.MissingTailOffset
	from := m.startBlock
	if last > m.cfg.MissingWindow {
		from = max(from, last-m.cfg.MissingWindow)
	}
	if from > to {
		return nil
	}

	missing, err := m.blocks.MissingHeights(ctx, from, to, m.cfg.ReportLimit)
	if err != nil {
		return fmt.Errorf("failed to find missing blocks: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}

	findings.WithLabelValues("missing").Inc()
	m.log.Warnw("missing blocks", "from", from, "to", to, "heights", missing)
	m.alert(ctx, fmt.Sprintf("Missing blocks between %d and %d: %v", from, to, missing))
	m.recorder.Record(ctx, sli.Metric{Entity: entity.Block.String(), Name: sli.MissedCount, Value: float64(len(missing))})

	err = m.remediator.RestartUnprocessed(ctx, entity.Block)
	if errors.Is(err, pkglistener.ErrRestartInProgress) {
		m.log.Info("restart of unprocessed tasks already running")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restart unprocessed tasks: %w", err)
	}

	return nil
}

// CheckDuplicates reports heights stored more than once.
func (m *Monitor) CheckDuplicates(ctx context.Context) error {
	duplicates, err := m.blocks.DuplicateHeights(ctx, m.cfg.ReportLimit)
	if err != nil {
		return fmt.Errorf("failed to find duplicate blocks: %w", err)
	}
	if len(duplicates) == 0 {
		return nil
	}

	findings.WithLabelValues("duplicates").Inc()
	m.log.Warnw("duplicate blocks", "heights", duplicates)
	m.alert(ctx, fmt.Sprintf("Duplicate blocks: %v", duplicates))
	m.recorder.Record(ctx, sli.Metric{Entity: entity.Block.String(), Name: sli.DuplicatesCount, Value: float64(len(duplicates))})

	return nil
}

// CheckStalled reports not_processed tasks older than the stale threshold.
// Stalled tasks are reported only, they are not re-enqueued.
func (m *Monitor) CheckStalled(ctx context.Context) error {
	olderThan := m.now().Add(-m.cfg.StaleAfter.Duration)

	stalled, err := m.tasks.ListStalled(ctx, entity.Block, olderThan, m.cfg.ReportLimit)
	if err != nil {
		return fmt.Errorf("failed to list stalled tasks: %w", err)
	}
	if len(stalled) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(stalled))
	for _, task := range stalled {
		ids = append(ids, task.EntityID)
	}

	findings.WithLabelValues("stalled").Inc()
	m.log.Warnw("stalled tasks", "older_than", olderThan, "entity_ids", ids)
	m.alert(ctx, fmt.Sprintf("Tasks not processed for more than %s: %v", m.cfg.StaleAfter.Duration, ids))
	m.recorder.Record(ctx, sli.Metric{Entity: sli.EntityQueue, Name: sli.NotProcessedCount, Value: float64(len(stalled))})

	return nil
}

func (m *Monitor) alert(ctx context.Context, text string) {
	if err := m.notifier.Notify(ctx, text); err != nil {
		m.log.Warnw("failed to deliver alert", "error", err)
	}
}
