// Package vectorstore abstracts the remote vector index behind a small
// store interface so the pipeline and retrieval paths can be tested against
// an in-memory implementation.
package vectorstore

import (
	"context"

	"scheme-qa-go/internal/model"
)

// Store persists chunk vectors and supports nearest-neighbour search.
type Store interface {
	// Reset deletes every entry. The region rebuild path calls this before
	// re-ingesting; it is not transactional with the ingest that follows.
	Reset(ctx context.Context) error
	// Upsert stores the given chunk documents with their vectors.
	Upsert(ctx context.Context, docs []model.ChunkDoc) error
	// Search returns the k entries closest to vector, best first.
	Search(ctx context.Context, vector []float32, k int) ([]model.ScoredChunk, error)
	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}
