// Package es provides the Elasticsearch client backing the vector index.
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"scheme-qa-go/internal/config"
	"scheme-qa-go/internal/model"
	"scheme-qa-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ESClient *elasticsearch.Client

// InitES connects the client and makes sure the chunk index exists.
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName)
}

// createIndexIfNotExists creates the scheme chunk index when missing.
func createIndexIfNotExists(indexName string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("failed to check whether index exists: %v", err)
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("index '%s' already exists", indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("unexpected status %d while checking index '%s'", res.StatusCode, indexName)
		return fmt.Errorf("unexpected status while checking index: %d", res.StatusCode)
	}

	// 384-dim cosine vectors match the default embedding model dimensions
	mapping := `{
		"mappings": {
			"properties": {
				"vector_id": { "type": "keyword" },
				"row_index": { "type": "integer" },
				"chunk_id": { "type": "integer" },
				"title": { "type": "keyword" },
				"region": { "type": "keyword" },
				"text_content": { "type": "text" },
				"vector": {
					"type": "dense_vector",
					"dims": 384,
					"index": true,
					"similarity": "cosine"
				},
				"model_version": { "type": "keyword" }
			}
		}
	}`

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)

	if err != nil {
		log.Errorf("failed to create index '%s': %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("elasticsearch returned an error creating index '%s': %s", indexName, res.String())
		return errors.New("elasticsearch returned an error while creating the index")
	}

	log.Infof("index '%s' created", indexName)
	return nil
}

// IndexDocument indexes a single chunk document.
func IndexDocument(ctx context.Context, indexName string, doc model.ChunkDoc) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: doc.VectorID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("failed to index document: %s", res.String())
		return errors.New("failed to index document")
	}

	return nil
}

// DeleteAllDocuments removes every entry from the index. The region rebuild
// path calls this before re-ingesting the filtered chunk set.
func DeleteAllDocuments(ctx context.Context, indexName string) error {
	body := strings.NewReader(`{"query":{"match_all":{}}}`)
	res, err := ESClient.DeleteByQuery(
		[]string{indexName},
		body,
		ESClient.DeleteByQuery.WithContext(ctx),
		ESClient.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("delete-by-query failed: %s", res.String())
		return errors.New("failed to clear index")
	}
	return nil
}

// CountDocuments returns the number of entries in the index.
func CountDocuments(ctx context.Context, indexName string) (int, error) {
	res, err := ESClient.Count(
		ESClient.Count.WithContext(ctx),
		ESClient.Count.WithIndex(indexName),
	)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("count request failed: %s", res.String())
	}

	var countResp struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&countResp); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return countResp.Count, nil
}

// KnnSearch runs a k-nearest-neighbour query against the stored vectors and
// returns the k closest chunks with their scores.
func KnnSearch(ctx context.Context, indexName string, vector []float32, k int) ([]model.ScoredChunk, error) {
	esQuery := map[string]interface{}{
		"knn": map[string]interface{}{
			"field":          "vector",
			"query_vector":   vector,
			"k":              k,
			"num_candidates": k * 10,
		},
		"size": k,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("failed to encode es query: %w", err)
	}

	res, err := ESClient.Search(
		ESClient.Search.WithContext(ctx),
		ESClient.Search.WithIndex(indexName),
		ESClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned an error: %s", res.String())
	}

	var esResponse struct {
		Hits struct {
			Hits []struct {
				Source model.ChunkDoc `json:"_source"`
				Score  float64        `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode es response: %w", err)
	}

	results := make([]model.ScoredChunk, 0, len(esResponse.Hits.Hits))
	for _, hit := range esResponse.Hits.Hits {
		results = append(results, model.ScoredChunk{
			Chunk: model.DocumentChunk{
				Text:      hit.Source.TextContent,
				SourceRow: hit.Source.RowIndex,
				Title:     hit.Source.Title,
			},
			Score: hit.Score,
		})
	}
	return results, nil
}
