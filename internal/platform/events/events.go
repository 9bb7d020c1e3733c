// Package events bridges the claim service's synchronous emit to the host's
// event sink without letting sink latency block state transitions.
package events

import (
	"context"
	"log/slog"

	"proofmark/internal/claim"
)

// Channel is a buffered claim.Publisher. Publish never blocks: when the
// buffer is full the event is dropped and counted against the logger, which
// matches the sink's best-effort contract.
type Channel struct {
	ch     chan claim.Event
	logger *slog.Logger
}

func NewChannel(size int, logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		ch:     make(chan claim.Event, size),
		logger: logger,
	}
}

func (c *Channel) Publish(ctx context.Context, event claim.Event) error {
	select {
	case c.ch <- event:
		return nil
	default:
		c.logger.WarnContext(ctx, "event buffer full, dropping event",
			"kind", string(event.Kind),
			"proof", event.Proof.Hex(),
		)
		return nil
	}
}

// Events exposes the buffered stream for a Worker to drain.
func (c *Channel) Events() <-chan claim.Event {
	return c.ch
}

// LogPublisher writes events to the structured log. Used when no event sink
// is configured so transitions remain observable in development.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event claim.Event) error {
	p.logger.InfoContext(ctx, "claim event",
		"kind", string(event.Kind),
		"proof", event.Proof.Hex(),
		"sender", event.Sender.String(),
		"new_owner", event.NewOwner.String(),
		"height", uint64(event.Height),
	)
	return nil
}
