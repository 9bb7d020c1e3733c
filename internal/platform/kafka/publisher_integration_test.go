//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"proofmark/internal/claim"
	"proofmark/internal/platform/kafka"
	"proofmark/pkg/testutil/containers"
)

func TestPublisher(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redpanda := containers.NewRedpandaContainer(t)
	ctx := context.Background()
	const topic = "proofmark.claims.test"

	publisher, err := kafka.NewPublisher(ctx, []string{redpanda.Broker}, topic, nil)
	require.NoError(t, err)
	t.Cleanup(publisher.Close)

	event := claim.Event{
		ID:        "ev-1",
		Kind:      claim.EventClaimCreated,
		Proof:     claim.Proof("abc"),
		Sender:    "alice",
		Height:    7,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, publisher.Publish(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, event.Proof.Hex(), string(records[0].Key))

	var got claim.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, event.Kind, got.Kind)
	assert.Equal(t, event.Sender, got.Sender)
	assert.Equal(t, event.Height, got.Height)
	assert.Equal(t, event.Proof, got.Proof)
}
