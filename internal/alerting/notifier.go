package alerting

import "context"

// Notifier delivers a rendered alert message to a configured destination.
// Delivery failure is the caller's to log; the core never retries.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
