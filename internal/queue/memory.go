package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	pkgqueue "github.com/goran-ethernal/BlockPipe/pkg/queue"
)

// Compile-time check to ensure Memory implements pkgqueue.Broker interface.
var _ pkgqueue.Broker = (*Memory)(nil)

// ErrUnknownQueue is returned when publishing to or consuming from an undeclared queue.
var ErrUnknownQueue = errors.New("queue is not declared")

// ErrBrokerClosed is returned by operations on a closed broker.
var ErrBrokerClosed = errors.New("broker is closed")

// Memory is an in-process broker. Messages live only as long as the process,
// it serves tests and single binary deployments.
type Memory struct {
	log *logger.Logger

	mu     sync.Mutex
	queues map[string]*memoryQueue
	closed chan struct{}
	once   sync.Once
}

type memoryQueue struct {
	mu       sync.Mutex
	messages [][]byte
	// notify has capacity 1 and is signalled whenever messages is non-empty
	notify chan struct{}
}

// NewMemory creates an empty in-process broker.
func NewMemory(log *logger.Logger) *Memory {
	return &Memory{
		log:    log.WithComponent(common.ComponentQueue),
		queues: make(map[string]*memoryQueue),
		closed: make(chan struct{}),
	}
}

// DeclareQueues creates the named queues if they do not exist.
func (m *Memory) DeclareQueues(_ context.Context, names ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range names {
		if _, ok := m.queues[name]; !ok {
			m.queues[name] = &memoryQueue{notify: make(chan struct{}, 1)}
			m.log.Debugw("queue declared", "queue", name)
		}
	}

	return nil
}

// Publish appends message to queue.
func (m *Memory) Publish(ctx context.Context, queue string, message any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q, err := m.queue(queue)
	if err != nil {
		publishedInc(queue, err)
		return err
	}

	body, err := encode(message)
	if err != nil {
		publishedInc(queue, err)
		return err
	}

	q.mu.Lock()
	q.messages = append(q.messages, body)
	q.mu.Unlock()
	q.signal()

	publishedInc(queue, nil)
	return nil
}

// Consume delivers messages from queue one at a time until ctx is cancelled or the broker is closed.
func (m *Memory) Consume(ctx context.Context, queue string, handler pkgqueue.Handler) error {
	q, err := m.queue(queue)
	if err != nil {
		return err
	}

	m.log.Infow("consuming", "queue", queue)

	for {
		body, ok := q.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-m.closed:
				return ErrBrokerClosed
			case <-q.notify:
				continue
			}
		}

		if err := Deliver(ctx, m.log, queue, body, handler, func() error { return nil }); err != nil {
			return err
		}
	}
}

// Messages returns a copy of the pending message bodies of queue.
func (m *Memory) Messages(queue string) [][]byte {
	q, err := m.queue(queue)
	if err != nil {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([][]byte, len(q.messages))
	copy(out, q.messages)
	return out
}

// Close stops all consumers.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}

func (m *Memory) queue(name string) (*memoryQueue, error) {
	select {
	case <-m.closed:
		return nil, ErrBrokerClosed
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueue, name)
	}

	return q, nil
}

func (q *memoryQueue) pop() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.messages) == 0 {
		return nil, false
	}

	body := q.messages[0]
	q.messages[0] = nil
	q.messages = q.messages[1:]

	// wake another consumer if more work is pending
	if len(q.messages) > 0 {
		q.signal()
	}

	return body, true
}

func (q *memoryQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
