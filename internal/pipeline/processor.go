// Package pipeline implements the table-to-index ingest flow.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"scheme-qa-go/internal/config"
	"scheme-qa-go/internal/document"
	"scheme-qa-go/internal/model"
	"scheme-qa-go/internal/repository"
	"scheme-qa-go/internal/vectorstore"
	"scheme-qa-go/pkg/embedding"
	"scheme-qa-go/pkg/log"
	"scheme-qa-go/pkg/storage"
	"scheme-qa-go/pkg/tasks"
)

// Processor rebuilds the vector index from a scraped table. Every run is a
// full rebuild: clear the index and the chunk table, then re-ingest the
// chunk set for the task's region. The clear and the re-ingest are not
// transactional; queries racing a rebuild can see a partial index.
type Processor struct {
	embeddingClient embedding.Client
	store           vectorstore.Store
	chunkRepo       repository.ChunkRepository
	minioCfg        config.MinIOConfig
	embeddingCfg    config.EmbeddingConfig
	defaultTable    string
}

// NewProcessor creates a Processor.
func NewProcessor(
	embeddingClient embedding.Client,
	store vectorstore.Store,
	chunkRepo repository.ChunkRepository,
	minioCfg config.MinIOConfig,
	embeddingCfg config.EmbeddingConfig,
	defaultTable string,
) *Processor {
	return &Processor{
		embeddingClient: embeddingClient,
		store:           store,
		chunkRepo:       chunkRepo,
		minioCfg:        minioCfg,
		embeddingCfg:    embeddingCfg,
		defaultTable:    defaultTable,
	}
}

// Process runs one ingest task end to end.
func (p *Processor) Process(ctx context.Context, task tasks.IngestTask) error {
	region := task.Region
	if region == "" {
		region = model.RegionAll
	}
	if !model.IsValidRegion(region) {
		return fmt.Errorf("unknown region filter: %q", region)
	}
	log.Infof("[Processor] starting ingest, region: %s", region)

	// 1. Build the chunk set from the table
	chunks, err := p.buildChunks(ctx, task, region)
	if err != nil {
		return err
	}
	log.Infof("[Processor] step 1: built %d chunks", len(chunks))
	if len(chunks) == 0 {
		log.Warnf("[Processor] no chunks produced for region '%s', aborting", region)
		return errors.New("no chunks produced from table")
	}

	// 2. Clear prior content; a region change replaces the whole index
	log.Info("[Processor] step 2: clearing index and chunk table")
	if err := p.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to clear vector index: %w", err)
	}
	if err := p.chunkRepo.DeleteAll(); err != nil {
		return fmt.Errorf("failed to clear chunk table: %w", err)
	}

	// 3. Stage one: persist chunk rows to the database
	rows := make([]*model.ChunkRow, 0, len(chunks))
	for i, chunk := range chunks {
		rows = append(rows, &model.ChunkRow{
			RowIndex:     chunk.SourceRow,
			ChunkID:      i,
			Title:        chunk.Title,
			Region:       region,
			TextContent:  chunk.Text,
			ModelVersion: p.embeddingCfg.Model,
		})
	}
	if err := p.chunkRepo.BatchCreate(rows); err != nil {
		return fmt.Errorf("failed to persist chunk rows: %w", err)
	}
	log.Infof("[Processor] step 3: persisted %d chunk rows", len(rows))

	// 4. Stage two: read back, embed and index
	saved, err := p.chunkRepo.FindAll()
	if err != nil {
		return fmt.Errorf("failed to read back chunk rows: %w", err)
	}
	for i, row := range saved {
		vector, err := p.embeddingClient.CreateEmbedding(ctx, row.TextContent)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", row.ChunkID, err)
		}

		doc := model.ChunkDoc{
			VectorID:     model.NewVectorID(row.RowIndex, row.ChunkID),
			RowIndex:     row.RowIndex,
			ChunkID:      row.ChunkID,
			Title:        row.Title,
			Region:       row.Region,
			TextContent:  row.TextContent,
			Vector:       vector,
			ModelVersion: p.embeddingCfg.Model,
		}
		if err := p.store.Upsert(ctx, []model.ChunkDoc{doc}); err != nil {
			return fmt.Errorf("failed to index chunk %d: %w", row.ChunkID, err)
		}
		if (i+1)%50 == 0 {
			log.Infof("[Processor] indexed %d/%d chunks", i+1, len(saved))
		}
	}

	log.Infof("[Processor] ingest complete, %d chunks indexed", len(saved))
	return nil
}

// buildChunks locates the table (MinIO snapshot, task path or the default
// path) and builds the filtered chunk set.
func (p *Processor) buildChunks(ctx context.Context, task tasks.IngestTask, region string) ([]model.DocumentChunk, error) {
	if task.ObjectName != "" {
		obj, err := storage.GetObject(ctx, p.minioCfg.BucketName, task.ObjectName)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch table snapshot '%s': %w", task.ObjectName, err)
		}
		defer obj.Close()
		chunks, err := document.BuildChunksFromReader(obj, region)
		if err != nil {
			return nil, fmt.Errorf("failed to build chunks from snapshot: %w", err)
		}
		return chunks, nil
	}

	path := task.TablePath
	if path == "" {
		path = p.defaultTable
	}
	chunks, err := document.BuildChunksFile(path, region)
	if err != nil {
		return nil, fmt.Errorf("failed to build chunks from '%s': %w", path, err)
	}
	return chunks, nil
}
