// Package queue defines the message broker abstraction connecting the pipeline services.
package queue

import (
	"context"
)

// Handler processes one message body. A returned error is logged by the broker,
// the message is acknowledged either way.
type Handler func(ctx context.Context, body []byte) error

// Publisher sends messages to a named durable queue.
type Publisher interface {
	// Publish JSON-encodes message and sends it to queue.
	// []byte and json.RawMessage values are sent as they are.
	Publish(ctx context.Context, queue string, message any) error
}

// Consumer receives messages from a named queue.
type Consumer interface {
	// Consume delivers messages from queue to handler one at a time until ctx is cancelled.
	Consume(ctx context.Context, queue string, handler Handler) error
}

// Broker is a connection to a message broker.
type Broker interface {
	Publisher
	Consumer

	// DeclareQueues creates the named durable queues. Declaring an existing queue is a no-op.
	DeclareQueues(ctx context.Context, names ...string) error

	// Close releases the broker connection.
	Close() error
}
