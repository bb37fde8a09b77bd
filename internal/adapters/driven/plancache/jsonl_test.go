package plancache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := New(filepath.Join(t.TempDir(), "plans.jsonl"))
	require.NoError(t, err)
	return cache
}

func samplePlan(text string) domain.QueryPlan {
	plan := domain.QueryPlan{
		QueryText: text,
		Filters: []domain.Filter{
			{Field: domain.FieldPublisher, Op: domain.OpContains, Value: "oxford"},
			{Field: domain.FieldDate, Op: domain.OpBetween, Start: 1500, End: 1599},
		},
		Limit: 20,
	}
	plan.PlanHash = plan.ComputeHash()
	return plan
}

func TestGetMissBeforeAnyPut(t *testing.T) {
	cache := newTestCache(t)

	plan, found, err := cache.Get(context.Background(), "never seen")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, plan)
}

func TestPutThenGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	plan := samplePlan("books published by Oxford between 1500 and 1599")

	require.NoError(t, cache.Put(ctx, plan))

	got, found, err := cache.Get(ctx, plan.QueryText)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, plan, *got)
}

func TestGetIsExactTextMatch(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, samplePlan("books from oxford")))

	// A whitespace or case variation is a different cache key.
	_, found, err := cache.Get(ctx, "Books from oxford")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = cache.Get(ctx, "books from oxford ")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDuplicateAppendLatestWins(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	first := samplePlan("same query")
	second := first
	second.Limit = 50
	second.PlanHash = second.ComputeHash()

	require.NoError(t, cache.Put(ctx, first))
	require.NoError(t, cache.Put(ctx, second))

	got, found, err := cache.Get(ctx, "same query")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 50, got.Limit)
}

func TestAppendsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plans.jsonl")
	ctx := context.Background()
	plan := samplePlan("durable query")

	cache, err := New(path)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, plan))

	reopened, err := New(path)
	require.NoError(t, err)

	got, found, err := reopened.Get(ctx, "durable query")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, plan.PlanHash, got.PlanHash)
}

func TestTruncatedFinalLineTolerated(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	plan := samplePlan("intact query")

	require.NoError(t, cache.Put(ctx, plan))

	// Simulate a crash mid-append: a partial trailing line.
	f, err := os.OpenFile(cache.Path(), os.O_WRONLY|os.O_APPEND, 0600)
	require.NoError(t, err)
	_, err = f.WriteString(`{"key":"abc","plan":{"query_te`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, found, err := cache.Get(ctx, "intact query")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, plan.QueryText, got.QueryText)
}

func TestCorruptInteriorLineFailsRead(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(cache.Path(), []byte("not json\n{\"key\":\"x\"}\n"), 0600))

	_, _, err := cache.Get(ctx, "anything")
	assert.Error(t, err)
}
