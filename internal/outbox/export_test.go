package outbox

import "context"

// PublishWithRetry exposes publishWithRetry to external tests.
func (w *Worker) PublishWithRetry(ctx context.Context, event OutboxEvent) error {
	return w.publishWithRetry(ctx, event)
}
