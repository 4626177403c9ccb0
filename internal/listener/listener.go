package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/block"
	"github.com/goran-ethernal/BlockPipe/pkg/config"
	"github.com/goran-ethernal/BlockPipe/pkg/entity"
	pkglistener "github.com/goran-ethernal/BlockPipe/pkg/listener"
	pkgqueue "github.com/goran-ethernal/BlockPipe/pkg/queue"
	"github.com/goran-ethernal/BlockPipe/pkg/tasks"
	"github.com/google/uuid"
)

// Compile-time check to ensure Listener implements pkglistener.Listener interface.
var _ pkglistener.Listener = (*Listener)(nil)

// Listener consumes frontier notifications and keeps the task table gapless
// up to the newest observed id.
type Listener struct {
	cfg    config.ListenerConfig
	queues config.QueueNames
	kind   entity.Kind
	store  tasks.Store
	broker pkgqueue.Broker
	log    *logger.Logger

	frontier   atomic.Uint64
	filling    atomic.Bool
	restarting atomic.Bool

	mu     sync.Mutex
	paused bool
	// gate is closed while the listener is not paused
	gate chan struct{}

	fills sync.WaitGroup
}

// New creates a Listener for block tasks.
func New(cfg config.ListenerConfig, queues config.QueueNames, store tasks.Store,
	broker pkgqueue.Broker, log *logger.Logger) *Listener {
	gate := make(chan struct{})
	close(gate)

	return &Listener{
		cfg:    cfg,
		queues: queues,
		kind:   entity.Block,
		store:  store,
		broker: broker,
		log:    log.WithComponent(common.ComponentListener),
		gate:   gate,
	}
}

type frontierMessage struct {
	EntityID block.Uint64 `json:"entity_id"`
}

// Run consumes the sensor queue until ctx is cancelled and then waits for the
// running fill to stop.
func (l *Listener) Run(ctx context.Context) error {
	l.log.Infow("listener started", "queue", l.queues.Sensor, "start_block", l.cfg.StartBlock)

	err := l.broker.Consume(ctx, l.queues.Sensor, func(ctx context.Context, body []byte) error {
		var msg frontierMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to decode frontier message: %w", err)
		}

		return l.OnFrontier(ctx, uint64(msg.EntityID))
	})

	l.fills.Wait()
	l.log.Info("listener stopped")

	return err
}

// OnFrontier records id as observed and, unless paused or already filling,
// starts a background fill from the watermark up to id.
func (l *Listener) OnFrontier(ctx context.Context, id uint64) error {
	l.observe(id)
	frontierGauge.Set(float64(l.LastObservedFrontier()))

	if l.IsPaused() {
		l.log.Debugw("paused, frontier notification dropped", "entity_id", id)
		return nil
	}

	if !l.filling.CompareAndSwap(false, true) {
		l.log.Debugw("fill in progress, frontier notification coalesced", "entity_id", id)
		return nil
	}

	from, err := l.nextID(ctx)
	if err != nil {
		l.filling.Store(false)
		return err
	}

	if from > id {
		l.filling.Store(false)
		l.log.Debugw("frontier already enqueued", "entity_id", id, "next", from)
		return nil
	}

	l.fills.Add(1)
	go func() {
		defer l.fills.Done()
		defer l.filling.Store(false)

		if err := l.fill(ctx, from, id, true); err != nil && !errors.Is(err, context.Canceled) {
			l.log.Errorw("frontier fill failed", "from", from, "to", id, "error", err)
		}
	}()

	return nil
}

// nextID returns the first id not covered by the watermark.
func (l *Listener) nextID(ctx context.Context) (uint64, error) {
	last, found, err := l.store.LastEntityID(ctx, l.kind)
	if err != nil {
		return 0, fmt.Errorf("failed to read watermark: %w", err)
	}

	if !found {
		return l.cfg.StartBlock, nil
	}
	if last == math.MaxUint64 {
		return last, nil
	}

	return max(last+1, l.cfg.StartBlock), nil
}

func (l *Listener) observe(id uint64) {
	for {
		current := l.frontier.Load()
		if id <= current || l.frontier.CompareAndSwap(current, id) {
			return
		}
	}
}

// Fill enqueues every id in [from, to]. Only one fill runs at a time.
func (l *Listener) Fill(ctx context.Context, from, to uint64, updateWatermark bool) error {
	if from > to {
		l.log.Errorw("incorrect range", "from", from, "to", to)
		return pkglistener.ErrInvalidRange
	}

	if !l.filling.CompareAndSwap(false, true) {
		return pkglistener.ErrFillInProgress
	}
	defer l.filling.Store(false)

	return l.fill(ctx, from, to, updateWatermark)
}

// fill runs with the filling flag held. Chunk boundaries are aligned to
// multiples of the chunk size. Cancellation and pause are honoured between
// chunks, a started chunk always completes.
func (l *Listener) fill(ctx context.Context, from, to uint64, updateWatermark bool) error {
	if from == to {
		l.log.Infow("creating task", "entity_id", from)
	} else {
		l.log.Infow("creating series of tasks", "from", from, "to", to)
	}

	for start := from; ; {
		if err := ctx.Err(); err != nil {
			l.log.Infow("fill stopped", "next", start, "to", to)
			return err
		}

		if err := l.waitResumed(ctx); err != nil {
			return err
		}

		end := min(l.chunkEnd(start), to)
		if err := l.enqueueChunk(context.WithoutCancel(ctx), start, end, updateWatermark); err != nil {
			return err
		}

		if end == to {
			return nil
		}
		start = end + 1

		select {
		case <-ctx.Done():
		case <-time.After(l.cfg.ChunkPause.Duration):
		}
	}
}

// chunkEnd returns the smallest multiple of the chunk size that is >= start.
func (l *Listener) chunkEnd(start uint64) uint64 {
	size := l.cfg.ChunkSize
	if rem := start % size; rem != 0 {
		if start > math.MaxUint64-(size-rem) {
			return math.MaxUint64
		}
		return start + (size - rem)
	}
	return start
}

func (l *Listener) enqueueChunk(ctx context.Context, from, to uint64, updateWatermark bool) error {
	inserted := 0
	for id := from; ; id++ {
		task := tasks.NewTask(l.kind, id, uuid.NewString())

		added, err := l.store.AddTask(ctx, task)
		if err != nil {
			chunkFailures.Inc()
			return fmt.Errorf("failed to enqueue chunk %d-%d: %w", from, to, err)
		}

		if !added {
			l.log.Warnw("task already exists, skipping", "entity", l.kind, "entity_id", id)
		} else {
			msg := tasks.TaskMessage{EntityID: id, CollectUID: task.CollectUID}
			if err := l.broker.Publish(ctx, l.queues.Processor, msg); err != nil {
				chunkFailures.Inc()
				return fmt.Errorf("failed to publish task %d: %w", id, err)
			}
			inserted++
		}

		if id == to {
			break
		}
	}

	if updateWatermark {
		if err := l.store.UpsertWatermark(ctx, l.kind, to); err != nil {
			chunkFailures.Inc()
			return fmt.Errorf("failed to update watermark to %d: %w", to, err)
		}
	}

	tasksEnqueued.Add(float64(inserted))
	l.log.Debugw("chunk enqueued", "from", from, "to", to, "inserted", inserted)

	return nil
}

// Pause stops enqueueing at the next chunk boundary and drops frontier notifications.
func (l *Listener) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.paused {
		l.paused = true
		l.gate = make(chan struct{})
		pausedGauge.Set(1)
		l.log.Info("listener paused")
	}
}

// Resume releases a paused fill.
func (l *Listener) Resume() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.paused {
		l.paused = false
		close(l.gate)
		pausedGauge.Set(0)
		l.log.Info("listener resumed")
	}
}

// IsPaused reports whether the listener is paused.
func (l *Listener) IsPaused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.paused
}

func (l *Listener) waitResumed(ctx context.Context) error {
	l.mu.Lock()
	gate := l.gate
	l.mu.Unlock()

	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ProcessOne enqueues a single id without touching the watermark.
func (l *Listener) ProcessOne(ctx context.Context, id uint64) error {
	return l.Fill(ctx, id, id, false)
}

// ProcessRange enqueues [from, to] without touching the watermark.
func (l *Listener) ProcessRange(ctx context.Context, from, to uint64) error {
	return l.Fill(ctx, from, to, false)
}

// RestartUnprocessed re-publishes every not_processed task of kind in pages of
// the chunk size, pausing between pages.
func (l *Listener) RestartUnprocessed(ctx context.Context, kind entity.Kind) error {
	if !l.restarting.CompareAndSwap(false, true) {
		return pkglistener.ErrRestartInProgress
	}
	defer l.restarting.Store(false)

	var (
		from      uint64
		last      uint64
		published int
	)
	limit := int(l.cfg.ChunkSize) //nolint:gosec
	for {
		page, err := l.store.ListUnprocessed(ctx, kind, from, limit)
		if err != nil {
			return fmt.Errorf("failed to list unprocessed tasks: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, task := range page {
			msg := tasks.TaskMessage{EntityID: task.EntityID, CollectUID: task.CollectUID}
			if err := l.broker.Publish(ctx, l.queues.Processor, msg); err != nil {
				return fmt.Errorf("failed to re-publish task %d: %w", task.EntityID, err)
			}
			last = task.EntityID
			published++
		}
		tasksRestarted.Add(float64(len(page)))

		l.log.Infow("re-published unprocessed tasks", "entity", kind, "count", len(page), "last_entity_id", last)

		if len(page) < limit || last == math.MaxUint64 {
			break
		}
		from = last + 1

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.cfg.RestartPause.Duration):
		}
	}

	l.log.Infow("restart of unprocessed tasks finished", "entity", kind, "published", published)
	return nil
}

// LastObservedFrontier returns the highest frontier id received.
func (l *Listener) LastObservedFrontier() uint64 {
	return l.frontier.Load()
}

// Status returns a snapshot of the listener state.
func (l *Listener) Status(ctx context.Context) (pkglistener.Status, error) {
	watermark, found, err := l.store.LastEntityID(ctx, l.kind)
	if err != nil {
		return pkglistener.Status{}, err
	}

	return pkglistener.Status{
		Entity:       l.kind,
		Frontier:     l.LastObservedFrontier(),
		Watermark:    watermark,
		HasWatermark: found,
		Paused:       l.IsPaused(),
		Filling:      l.filling.Load(),
		Restarting:   l.restarting.Load(),
	}, nil
}
