package vectorstore

import (
	"context"
	"testing"

	"scheme-qa-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSearchRanksByCosine(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, []model.ChunkDoc{
		{VectorID: "0_0", RowIndex: 0, Title: "exact", TextContent: "exact match", Vector: []float32{1, 0, 0}},
		{VectorID: "1_1", RowIndex: 1, Title: "near", TextContent: "near match", Vector: []float32{1, 1, 0}},
		{VectorID: "2_2", RowIndex: 2, Title: "far", TextContent: "unrelated", Vector: []float32{0, 0, 1}},
	}))

	results, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "exact", results[0].Chunk.Title)
	assert.Equal(t, "near", results[1].Chunk.Title)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemoryStoreUpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, []model.ChunkDoc{
		{VectorID: "0_0", TextContent: "old", Vector: []float32{1, 0}},
	}))
	require.NoError(t, store.Upsert(ctx, []model.ChunkDoc{
		{VectorID: "0_0", TextContent: "new", Vector: []float32{1, 0}},
	}))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := store.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", results[0].Chunk.Text)
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, []model.ChunkDoc{
		{VectorID: "0_0", Vector: []float32{1}},
	}))
	require.NoError(t, store.Reset(ctx))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, Cosine(nil, []float32{1}))
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 1}))
}
