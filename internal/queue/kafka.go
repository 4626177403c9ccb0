package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/config"
	pkgqueue "github.com/goran-ethernal/BlockPipe/pkg/queue"
	kgo "github.com/segmentio/kafka-go"
)

// Compile-time check to ensure Kafka implements pkgqueue.Broker interface.
var _ pkgqueue.Broker = (*Kafka)(nil)

const (
	kafkaBroker        = "kafka"
	kafkaCommitTimeout = 3 * time.Second
	kafkaMaxBytes      = 10e6
)

// Kafka maps every queue to a topic. Consumers of the same queue share the
// configured consumer group, so each message is handled by one instance.
type Kafka struct {
	cfg    config.QueueConfig
	log    *logger.Logger
	writer *kgo.Writer

	mu      sync.Mutex
	readers map[*kgo.Reader]struct{}
}

// NewKafka creates a Kafka broker. Connections are established lazily.
func NewKafka(cfg config.QueueConfig, log *logger.Logger) *Kafka {
	return &Kafka{
		cfg: cfg,
		log: log.WithComponent(common.ComponentQueue),
		writer: &kgo.Writer{
			Addr:         kgo.TCP(cfg.Brokers...),
			Balancer:     &kgo.LeastBytes{},
			RequiredAcks: kgo.RequireAll,
		},
		readers: make(map[*kgo.Reader]struct{}),
	}
}

// DeclareQueues creates the topics that do not exist yet.
func (k *Kafka) DeclareQueues(ctx context.Context, names ...string) error {
	topics := make([]kgo.TopicConfig, 0, len(names))
	for _, name := range names {
		topics = append(topics, kgo.TopicConfig{Topic: name, NumPartitions: 1, ReplicationFactor: 1})
	}

	return retryWithBackoff(ctx, &k.cfg.Reconnect, "kafka create topics", func() error {
		conn, err := kgo.DialContext(ctx, "tcp", k.cfg.Brokers[0])
		if err != nil {
			reconnectInc(kafkaBroker)
			return fmt.Errorf("failed to dial kafka: %w", err)
		}
		defer conn.Close()

		controller, err := conn.Controller()
		if err != nil {
			return fmt.Errorf("failed to find kafka controller: %w", err)
		}

		controllerConn, err := kgo.DialContext(ctx, "tcp",
			net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
		if err != nil {
			return fmt.Errorf("failed to dial kafka controller: %w", err)
		}
		defer controllerConn.Close()

		// creating an existing topic is a no-op
		if err := controllerConn.CreateTopics(topics...); err != nil {
			return fmt.Errorf("failed to create topics: %w", err)
		}

		k.log.Infow("topics declared", "topics", names)
		return nil
	})
}

// Publish writes message to the topic named queue.
func (k *Kafka) Publish(ctx context.Context, queue string, message any) error {
	body, err := encode(message)
	if err != nil {
		publishedInc(queue, err)
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, k.cfg.PublishTimeout.Duration)
	defer cancel()

	err = k.writer.WriteMessages(cctx, kgo.Message{
		Topic: queue,
		Value: body,
		Time:  time.Now(),
	})
	publishedInc(queue, err)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}

	return nil
}

// Consume fetches one message at a time and commits its offset after the handler returns.
func (k *Kafka) Consume(ctx context.Context, queue string, handler pkgqueue.Handler) error {
	reader := kgo.NewReader(kgo.ReaderConfig{
		Brokers:        k.cfg.Brokers,
		Topic:          queue,
		GroupID:        k.cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       kafkaMaxBytes,
		QueueCapacity:  1,
		CommitInterval: 0, // manual commits
	})
	k.track(reader, true)
	defer func() {
		k.track(reader, false)
		if err := reader.Close(); err != nil {
			k.log.Warnw("failed to close reader", "queue", queue, "error", err)
		}
	}()

	k.log.Infow("consuming", "queue", queue, "group_id", k.cfg.GroupID)

	attempt := 0
	for {
		msg, err := reader.FetchMessage(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return ErrBrokerClosed
		}
		if err != nil {
			attempt++
			reconnectInc(kafkaBroker)
			backoff := calculateBackoff(attempt+1, &k.cfg.Reconnect)
			k.log.Warnw("failed to fetch message, retrying",
				"queue", queue, "attempt", attempt, "backoff", backoff, "error", err)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			continue
		}
		attempt = 0

		commit := func() error {
			cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), kafkaCommitTimeout)
			defer cancel()
			return reader.CommitMessages(cctx, msg)
		}

		if err := Deliver(ctx, k.log, queue, msg.Value, handler, commit); err != nil {
			// the offset stays uncommitted and the message is redelivered after a rebalance
			k.log.Errorw("failed to commit offset", "queue", queue, "offset", msg.Offset, "error", err)
		}
	}
}

// Close flushes the writer and closes all readers.
func (k *Kafka) Close() error {
	k.mu.Lock()
	readers := make([]*kgo.Reader, 0, len(k.readers))
	for r := range k.readers {
		readers = append(readers, r)
	}
	k.mu.Unlock()

	var errs []error
	for _, r := range readers {
		errs = append(errs, r.Close())
	}
	errs = append(errs, k.writer.Close())

	return errors.Join(errs...)
}

func (k *Kafka) track(reader *kgo.Reader, add bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if add {
		k.readers[reader] = struct{}{}
	} else {
		delete(k.readers, reader)
	}
}
