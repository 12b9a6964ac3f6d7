package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"scheme-qa-go/internal/model"
)

// MemoryStore is an in-memory Store used by tests and local runs without an
// Elasticsearch cluster. Entries are keyed by vector id, so re-upserting the
// same chunk replaces it.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]model.ChunkDoc
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]model.ChunkDoc)}
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]model.ChunkDoc)
	return nil
}

func (s *MemoryStore) Upsert(_ context.Context, docs []model.ChunkDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		s.docs[doc.VectorID] = doc
	}
	return nil
}

func (s *MemoryStore) Search(_ context.Context, vector []float32, k int) ([]model.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]model.ScoredChunk, 0, len(s.docs))
	for _, doc := range s.docs {
		results = append(results, model.ScoredChunk{
			Chunk: model.DocumentChunk{
				Text:      doc.TextContent,
				SourceRow: doc.RowIndex,
				Title:     doc.Title,
			},
			Score: Cosine(vector, doc.Vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Cosine computes the cosine similarity between two vectors; zero when
// either vector is empty or all-zero.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
