// Package alert defines the sink for operator facing alerts.
package alert

import (
	"context"
)

// Notifier delivers an alert text. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
