// Package sequencer supplies logical time. Each accepted operation is one
// sequencing unit; the height returned by Now is the position the host
// assigned to it. The registry stores heights as creation timestamps and
// never reinterprets them.
package sequencer

import (
	"context"
	"sync/atomic"

	"proofmark/pkg/domain"
)

//go:generate mockgen -destination=mocks/clock.go -package=mocks proofmark/internal/sequencer Clock

// Clock is the host's sequencing collaborator. Heights are strictly
// monotonic per registry: two calls never return the same value out of
// order.
type Clock interface {
	Now(ctx context.Context) (domain.Height, error)
}

// MemoryClock sequences operations with an in-process counter. Suitable for
// single-replica deployments and tests.
type MemoryClock struct {
	height atomic.Uint64
}

func NewMemoryClock() *MemoryClock {
	return &MemoryClock{}
}

func (c *MemoryClock) Now(_ context.Context) (domain.Height, error) {
	return domain.Height(c.height.Add(1)), nil
}

// Height returns the last assigned height. Test helper.
func (c *MemoryClock) Height() domain.Height {
	return domain.Height(c.height.Load())
}
