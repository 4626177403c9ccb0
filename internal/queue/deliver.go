package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goran-ethernal/BlockPipe/internal/logger"
	pkgqueue "github.com/goran-ethernal/BlockPipe/pkg/queue"
)

// Deliver runs handler for one message and then acknowledges it, whether or not
// the handler failed. Handler failures and panics are logged with the queue name,
// only a failed ack is returned.
func Deliver(ctx context.Context, log *logger.Logger, queue string, body []byte,
	handler pkgqueue.Handler, ack func() error) error {
	if err := runHandler(ctx, queue, body, handler); err != nil {
		consumeOutcomeInc(queue, outcomeFailed)
		log.Errorw("failed to handle message",
			"queue", queue,
			"error", err,
			"body", truncate(body))
	} else {
		consumeOutcomeInc(queue, outcomeHandled)
	}

	if err := ack(); err != nil {
		return fmt.Errorf("failed to ack message on %s: %w", queue, err)
	}

	return nil
}

func runHandler(ctx context.Context, queue string, body []byte, handler pkgqueue.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic on %s: %v", queue, r)
		}
	}()

	return handler(ctx, body)
}

func encode(message any) ([]byte, error) {
	switch m := message.(type) {
	case []byte:
		return m, nil
	case json.RawMessage:
		return m, nil
	}

	body, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	return body, nil
}

const maxLoggedBody = 256

func truncate(body []byte) string {
	if len(body) <= maxLoggedBody {
		return string(body)
	}
	return string(body[:maxLoggedBody]) + "..."
}
