package queue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/config"
	pkgqueue "github.com/goran-ethernal/BlockPipe/pkg/queue"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Compile-time check to ensure AMQP implements pkgqueue.Broker interface.
var _ pkgqueue.Broker = (*AMQP)(nil)

const amqpBroker = "amqp"

// AMQP is a RabbitMQ broker. Queues are durable, messages persistent and
// published with confirms. Consumers use a prefetch of one and manual acks.
// A dropped connection is re-established with backoff and declared queues are
// declared again.
type AMQP struct {
	cfg config.QueueConfig
	log *logger.Logger

	mu       sync.Mutex
	conn     *amqp.Connection
	pubCh    *amqp.Channel
	declared []string
	closed   bool
}

// NewAMQP creates an AMQP broker. The connection is established on first use.
func NewAMQP(cfg config.QueueConfig, log *logger.Logger) *AMQP {
	return &AMQP{
		cfg: cfg,
		log: log.WithComponent(common.ComponentQueue),
	}
}

// connection returns a live connection, dialling with backoff when needed.
// Must be called with a.mu held.
func (a *AMQP) connection(ctx context.Context) (*amqp.Connection, error) {
	if a.closed {
		return nil, ErrBrokerClosed
	}
	if a.conn != nil && !a.conn.IsClosed() {
		return a.conn, nil
	}

	a.pubCh = nil
	err := retryWithBackoff(ctx, &a.cfg.Reconnect, "amqp dial", func() error {
		reconnectInc(amqpBroker)
		conn, err := amqp.Dial(a.cfg.URL)
		if err != nil {
			a.log.Warnw("failed to connect to broker", "error", err)
			return err
		}
		a.conn = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to amqp broker: %w", err)
	}

	a.log.Info("connected to amqp broker")

	if len(a.declared) > 0 {
		if err := a.declare(a.declared...); err != nil {
			return nil, err
		}
	}

	return a.conn, nil
}

// declare declares durable queues on a fresh channel. Must be called with a.mu held.
func (a *AMQP) declare(names ...string) error {
	ch, err := a.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	for _, name := range names {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
	}

	return nil
}

// DeclareQueues declares durable queues and remembers them for reconnects.
func (a *AMQP) DeclareQueues(ctx context.Context, names ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.connection(ctx); err != nil {
		return err
	}

	if err := a.declare(names...); err != nil {
		return err
	}

	for _, name := range names {
		if !slices.Contains(a.declared, name) {
			a.declared = append(a.declared, name)
		}
	}

	a.log.Infow("queues declared", "queues", names)
	return nil
}

// Publish sends a persistent message to queue through the default exchange and
// waits for the broker confirm.
func (a *AMQP) Publish(ctx context.Context, queue string, message any) error {
	body, err := encode(message)
	if err != nil {
		publishedInc(queue, err)
		return err
	}

	err = a.publish(ctx, queue, body)
	publishedInc(queue, err)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}

	return nil
}

func (a *AMQP) publish(ctx context.Context, queue string, body []byte) error {
	cctx, cancel := context.WithTimeout(ctx, a.cfg.PublishTimeout.Duration)
	defer cancel()

	a.mu.Lock()
	defer a.mu.Unlock()

	conn, err := a.connection(cctx)
	if err != nil {
		return err
	}

	if a.pubCh == nil || a.pubCh.IsClosed() {
		ch, err := conn.Channel()
		if err != nil {
			return fmt.Errorf("failed to open publish channel: %w", err)
		}
		if err := ch.Confirm(false); err != nil {
			ch.Close()
			return fmt.Errorf("failed to enable publisher confirms: %w", err)
		}
		a.pubCh = ch
	}

	confirm, err := a.pubCh.PublishWithDeferredConfirmWithContext(cctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return err
	}

	acked, err := confirm.WaitContext(cctx)
	if err != nil {
		return err
	}
	if !acked {
		return errors.New("broker rejected message")
	}

	return nil
}

// Consume delivers messages from queue one at a time. When the connection drops
// the consumer reconnects and resumes until ctx is cancelled.
func (a *AMQP) Consume(ctx context.Context, queue string, handler pkgqueue.Handler) error {
	for {
		err := a.consumeOnce(ctx, queue, handler)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrBrokerClosed) {
			return err
		}

		a.log.Warnw("consumer stopped, reconnecting", "queue", queue, "error", err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(a.cfg.Reconnect.InitialBackoff.Duration):
		}
	}
}

func (a *AMQP) consumeOnce(ctx context.Context, queue string, handler pkgqueue.Handler) error {
	a.mu.Lock()
	conn, err := a.connection(ctx)
	a.mu.Unlock()
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consume channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", queue, err)
	}

	a.log.Infow("consuming", "queue", queue)

	for d := range deliveries {
		if err := Deliver(ctx, a.log, queue, d.Body, handler, func() error { return d.Ack(false) }); err != nil {
			// an unacked message is redelivered by the broker once the channel closes
			return err
		}
	}

	return errors.New("delivery channel closed")
}

// Close closes the publish channel and the connection.
func (a *AMQP) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	if a.conn == nil || a.conn.IsClosed() {
		return nil
	}

	return a.conn.Close()
}
