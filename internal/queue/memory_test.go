package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestMemory_PublishConsume(t *testing.T) {
	broker := NewMemory(logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, broker.DeclareQueues(ctx, "blocks"))
	require.NoError(t, broker.DeclareQueues(ctx, "blocks"))

	for i := range 3 {
		require.NoError(t, broker.Publish(ctx, "blocks", map[string]int{"entity_id": i}))
	}
	require.Len(t, broker.Messages("blocks"), 3)

	var (
		mu       sync.Mutex
		received []string
	)
	done := make(chan error, 1)
	go func() {
		done <- broker.Consume(ctx, "blocks", func(_ context.Context, body []byte) error {
			mu.Lock()
			received = append(received, string(body))
			mu.Unlock()
			return errors.New("failures are still acked")
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 3
	}, time.Second, 10*time.Millisecond)

	require.Equal(t, []string{`{"entity_id":0}`, `{"entity_id":1}`, `{"entity_id":2}`}, received)
	require.Empty(t, broker.Messages("blocks"))

	cancel()
	require.NoError(t, <-done)
}

func TestMemory_OneInFlightPerConsumer(t *testing.T) {
	broker := NewMemory(logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, broker.DeclareQueues(ctx, "q"))

	var inFlight, maxInFlight, handled atomic.Int32
	go func() {
		_ = broker.Consume(ctx, "q", func(context.Context, []byte) error {
			n := inFlight.Add(1)
			if n > maxInFlight.Load() {
				maxInFlight.Store(n)
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			handled.Add(1)
			return nil
		})
	}()

	for range 10 {
		require.NoError(t, broker.Publish(ctx, "q", []byte(`{}`)))
	}

	require.Eventually(t, func() bool { return handled.Load() == 10 }, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, int32(1), maxInFlight.Load())
}

func TestMemory_UnknownQueueAndClose(t *testing.T) {
	broker := NewMemory(logger.NewNopLogger())
	ctx := context.Background()

	require.ErrorIs(t, broker.Publish(ctx, "missing", []byte(`{}`)), ErrUnknownQueue)
	require.ErrorIs(t, broker.Consume(ctx, "missing", nil), ErrUnknownQueue)

	require.NoError(t, broker.DeclareQueues(ctx, "q"))
	done := make(chan error, 1)
	go func() {
		done <- broker.Consume(ctx, "q", func(context.Context, []byte) error { return nil })
	}()

	require.NoError(t, broker.Close())
	require.ErrorIs(t, <-done, ErrBrokerClosed)
	require.ErrorIs(t, broker.Publish(ctx, "q", []byte(`{}`)), ErrBrokerClosed)
}

func TestNew(t *testing.T) {
	log := logger.NewNopLogger()

	broker, err := New(config.QueueConfig{Kind: config.QueueKindMemory}, log)
	require.NoError(t, err)
	require.IsType(t, &Memory{}, broker)

	broker, err = New(config.QueueConfig{Kind: config.QueueKindKafka, Brokers: []string{"localhost:9092"}}, log)
	require.NoError(t, err)
	require.IsType(t, &Kafka{}, broker)
	require.NoError(t, broker.Close())

	broker, err = New(config.QueueConfig{Kind: config.QueueKindAMQP, URL: "amqp://localhost"}, log)
	require.NoError(t, err)
	require.IsType(t, &AMQP{}, broker)

	_, err = New(config.QueueConfig{Kind: "sqs"}, log)
	require.Error(t, err)
}
