package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
)

// SlackNotifier posts alerts to a Slack incoming webhook.
type SlackNotifier struct {
	url     string
	network string
	client  *http.Client
	log     *logger.Logger
}

type slackMessage struct {
	Text string `json:"text"`
}

// NewSlackNotifier creates a notifier posting to webhookURL.
func NewSlackNotifier(webhookURL, network string, timeout time.Duration, log *logger.Logger) *SlackNotifier {
	return &SlackNotifier{
		url:     webhookURL,
		network: network,
		client:  &http.Client{Timeout: timeout},
		log:     log.WithComponent(common.ComponentAlerts),
	}
}

// Notify posts text prefixed with the network name.
func (n *SlackNotifier) Notify(ctx context.Context, text string) error {
	body, err := json.Marshal(slackMessage{Text: fmt.Sprintf("[%s] %s", n.network, text)})
	if err != nil {
		return fmt.Errorf("failed to encode slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		alertFailures.WithLabelValues("slack").Inc()
		return fmt.Errorf("failed to post slack alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512)) //nolint:mnd
		alertFailures.WithLabelValues("slack").Inc()
		return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	alertsSent.WithLabelValues("slack").Inc()
	n.log.Debug("slack alert delivered")

	return nil
}
