package queue

import (
	"fmt"

	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/config"
	pkgqueue "github.com/goran-ethernal/BlockPipe/pkg/queue"
)

// New creates the broker selected by cfg.Kind.
func New(cfg config.QueueConfig, log *logger.Logger) (pkgqueue.Broker, error) {
	switch cfg.Kind {
	case config.QueueKindMemory:
		return NewMemory(log), nil
	case config.QueueKindKafka:
		return NewKafka(cfg, log), nil
	case config.QueueKindAMQP:
		return NewAMQP(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported queue kind %q", cfg.Kind)
	}
}
