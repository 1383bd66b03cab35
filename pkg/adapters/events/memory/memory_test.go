package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizutori/nosread/pkg/ports"
)

func TestEventBusDeliversToSubscribers(t *testing.T) {
	ctx := context.Background()
	bus := NewEventBus()

	var got []ports.FeedEvent
	require.NoError(t, bus.Subscribe(ctx, ports.TopicArticles, func(ctx context.Context, event ports.FeedEvent) error {
		got = append(got, event)
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, ports.TopicArticles, ports.FeedEvent{ID: "1", Type: ports.FeedEventArticle}))
	require.NoError(t, bus.Publish(ctx, ports.TopicArticles, ports.FeedEvent{ID: "2", Type: ports.FeedEventClear}))

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestEventBusTopicsAreIsolated(t *testing.T) {
	ctx := context.Background()
	bus := NewEventBus()

	var articleEvents, statusEvents int
	require.NoError(t, bus.Subscribe(ctx, ports.TopicArticles, func(ctx context.Context, event ports.FeedEvent) error {
		articleEvents++
		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx, ports.TopicStatus, func(ctx context.Context, event ports.FeedEvent) error {
		statusEvents++
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, ports.TopicStatus, ports.FeedEvent{Type: ports.FeedEventStatus}))

	assert.Zero(t, articleEvents)
	assert.Equal(t, 1, statusEvents)
}

func TestEventBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus()

	assert.NoError(t, bus.Publish(context.Background(), ports.TopicArticles, ports.FeedEvent{}))
}

func TestEventBusClose(t *testing.T) {
	ctx := context.Background()
	bus := NewEventBus()

	var delivered int
	require.NoError(t, bus.Subscribe(ctx, ports.TopicArticles, func(ctx context.Context, event ports.FeedEvent) error {
		delivered++
		return nil
	}))

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Publish(ctx, ports.TopicArticles, ports.FeedEvent{}))

	assert.Zero(t, delivered)
}
