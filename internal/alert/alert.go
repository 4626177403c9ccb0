package alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/alert"
	"github.com/goran-ethernal/BlockPipe/pkg/config"
)

// Compile-time checks to ensure the notifiers implement alert.Notifier interface.
var (
	_ alert.Notifier = (*LogNotifier)(nil)
	_ alert.Notifier = (*SlackNotifier)(nil)
	_ alert.Notifier = (Multi)(nil)
)

// New returns a notifier that always logs alerts and, when a webhook is
// configured, also posts them to Slack.
func New(cfg config.AlertsConfig, network string, log *logger.Logger) alert.Notifier {
	notifiers := Multi{NewLogNotifier(network, log)}
	if cfg.SlackWebhookURL != "" {
		notifiers = append(notifiers, NewSlackNotifier(cfg.SlackWebhookURL, network, cfg.Timeout.Duration, log))
	}

	return notifiers
}

// LogNotifier writes alerts to the log at warn level.
type LogNotifier struct {
	network string
	log     *logger.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(network string, log *logger.Logger) *LogNotifier {
	return &LogNotifier{network: network, log: log.WithComponent(common.ComponentAlerts)}
}

// Notify logs text.
func (n *LogNotifier) Notify(_ context.Context, text string) error {
	n.log.Warnw("alert", "network", n.network, "text", text)
	alertsSent.WithLabelValues("log").Inc()
	return nil
}

// Multi fans an alert out to every notifier and joins their errors.
type Multi []alert.Notifier

// Notify delivers text to every notifier, one failing notifier does not stop the others.
func (m Multi) Notify(ctx context.Context, text string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to deliver alert: %w", err)
	}

	return nil
}
