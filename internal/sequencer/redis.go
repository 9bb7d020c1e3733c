package sequencer

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"proofmark/pkg/domain"
	dErrors "proofmark/pkg/domain-errors"
)

// heightKey is the shared counter all replicas INCR. Redis serializes the
// increments, which is what makes the height a total order across replicas.
const heightKey = "proofmark:height"

// RedisClock sequences operations through a shared Redis counter so
// multiple registry replicas agree on logical time.
type RedisClock struct {
	rdb *redis.Client
}

func NewRedisClock(rdb *redis.Client) *RedisClock {
	return &RedisClock{rdb: rdb}
}

func (c *RedisClock) Now(ctx context.Context) (domain.Height, error) {
	height, err := c.rdb.Incr(ctx, heightKey).Result()
	if err != nil {
		return 0, dErrors.Wrap(fmt.Errorf("incr height: %w", err),
			dErrors.CodeUnavailable, "sequencer unavailable")
	}
	return domain.Height(height), nil
}
