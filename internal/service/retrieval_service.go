// Package service contains the application's business logic.
package service

import (
	"context"
	"fmt"

	"scheme-qa-go/internal/model"
	"scheme-qa-go/internal/vectorstore"
	"scheme-qa-go/pkg/embedding"
	"scheme-qa-go/pkg/log"
)

// RetrievalService embeds query text and ranks stored chunks against it.
type RetrievalService interface {
	Retrieve(ctx context.Context, text string, k int) ([]model.ScoredChunk, error)
}

type retrievalService struct {
	embeddingClient embedding.Client
	store           vectorstore.Store
}

// NewRetrievalService creates a RetrievalService over the given store.
func NewRetrievalService(embeddingClient embedding.Client, store vectorstore.Store) RetrievalService {
	return &retrievalService{
		embeddingClient: embeddingClient,
		store:           store,
	}
}

// Retrieve returns the k chunks nearest to the embedded text, best first.
func (s *retrievalService) Retrieve(ctx context.Context, text string, k int) ([]model.ScoredChunk, error) {
	vector, err := s.embeddingClient.CreateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create query embedding: %w", err)
	}

	results, err := s.store.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	log.Infof("[RetrievalService] retrieved %d chunks for query of %d chars", len(results), len(text))
	return results, nil
}
