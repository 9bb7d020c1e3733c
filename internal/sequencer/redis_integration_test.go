//go:build integration

package sequencer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proofmark/internal/sequencer"
	"proofmark/pkg/domain"
	"proofmark/pkg/testutil/containers"
)

func TestRedisClock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redis := containers.NewRedisContainer(t)
	ctx := context.Background()

	t.Run("heights are strictly increasing", func(t *testing.T) {
		clock := sequencer.NewRedisClock(redis.Client)

		var last domain.Height
		for i := 0; i < 20; i++ {
			h, err := clock.Now(ctx)
			require.NoError(t, err)
			assert.Greater(t, uint64(h), uint64(last))
			last = h
		}
	})

	t.Run("replicas share one sequence", func(t *testing.T) {
		a := sequencer.NewRedisClock(redis.Client)
		b := sequencer.NewRedisClock(redis.Client)

		ha, err := a.Now(ctx)
		require.NoError(t, err)
		hb, err := b.Now(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(ha)+1, uint64(hb))
	})
}
