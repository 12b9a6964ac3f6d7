package vectorstore

import (
	"context"

	"scheme-qa-go/internal/model"
	"scheme-qa-go/pkg/es"
)

// elasticStore backs the Store interface with the named Elasticsearch index.
type elasticStore struct {
	indexName string
}

// NewElasticStore binds to the pre-existing named index; es.InitES must have
// run first.
func NewElasticStore(indexName string) Store {
	return &elasticStore{indexName: indexName}
}

func (s *elasticStore) Reset(ctx context.Context) error {
	return es.DeleteAllDocuments(ctx, s.indexName)
}

func (s *elasticStore) Upsert(ctx context.Context, docs []model.ChunkDoc) error {
	for _, doc := range docs {
		if err := es.IndexDocument(ctx, s.indexName, doc); err != nil {
			return err
		}
	}
	return nil
}

func (s *elasticStore) Search(ctx context.Context, vector []float32, k int) ([]model.ScoredChunk, error) {
	return es.KnnSearch(ctx, s.indexName, vector, k)
}

func (s *elasticStore) Count(ctx context.Context) (int, error) {
	return es.CountDocuments(ctx, s.indexName)
}
