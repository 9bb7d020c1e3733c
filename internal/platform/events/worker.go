package events

import (
	"context"
	"log/slog"

	"proofmark/internal/claim"
)

// Worker drains a channel of claim events into a Publisher. Delivery
// failures are logged and skipped rather than retried: the registry's state
// has already committed, and the sink is best-effort.
type Worker struct {
	publisher claim.Publisher
	inbox     <-chan claim.Event
	logger    *slog.Logger
}

func NewWorker(publisher claim.Publisher, inbox <-chan claim.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{publisher: publisher, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Publish(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to deliver claim event",
					"kind", string(event.Kind),
					"proof", event.Proof.Hex(),
					"error", err.Error(),
				)
			}
		}
	}
}
