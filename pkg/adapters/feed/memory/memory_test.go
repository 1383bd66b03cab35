package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizutori/nosread/pkg/domain"
)

func TestFeedStoreAppendAndList(t *testing.T) {
	ctx := context.Background()
	store := NewFeedStore()

	require.NoError(t, store.Append(ctx, domain.ArticleRecord{Title: "first"}))
	require.NoError(t, store.Append(ctx, domain.ArticleRecord{Title: "second"}))

	articles, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "first", articles[0].Title)
	assert.Equal(t, "second", articles[1].Title)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFeedStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewFeedStore()

	require.NoError(t, store.Append(ctx, domain.ArticleRecord{Title: "stale"}))
	require.NoError(t, store.Clear(ctx))

	articles, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestFeedStoreListIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewFeedStore()

	require.NoError(t, store.Append(ctx, domain.ArticleRecord{Title: "original"}))

	articles, err := store.List(ctx)
	require.NoError(t, err)
	articles[0].Title = "mutated"

	articles, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", articles[0].Title)
}
