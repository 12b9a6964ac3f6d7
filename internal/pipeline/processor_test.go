package pipeline

import (
	"context"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scheme-qa-go/internal/config"
	"scheme-qa-go/internal/document"
	"scheme-qa-go/internal/model"
	"scheme-qa-go/internal/vectorstore"
	"scheme-qa-go/pkg/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hashEmbedder is a deterministic offline stand-in for the embedding API:
// each token adds weight to a hashed bucket, so texts sharing words land
// close in vector space.
type hashEmbedder struct {
	dims int
}

func (e *hashEmbedder) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dims)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(strings.Trim(token, ".,:!?")))
		vec[h.Sum32()%uint32(e.dims)]++
	}
	return vec, nil
}

func (e *hashEmbedder) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := e.CreateEmbedding(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// memChunkRepo is an in-memory ChunkRepository for pipeline tests.
type memChunkRepo struct {
	rows []*model.ChunkRow
}

func (r *memChunkRepo) Migrate() error { return nil }

func (r *memChunkRepo) BatchCreate(rows []*model.ChunkRow) error {
	r.rows = append(r.rows, rows...)
	return nil
}

func (r *memChunkRepo) DeleteAll() error {
	r.rows = nil
	return nil
}

func (r *memChunkRepo) FindAll() ([]*model.ChunkRow, error) {
	return r.rows, nil
}

func (r *memChunkRepo) FindByRowIndex(rowIndex int) ([]*model.ChunkRow, error) {
	var out []*model.ChunkRow
	for _, row := range r.rows {
		if row.RowIndex == rowIndex {
			out = append(out, row)
		}
	}
	return out, nil
}

func writeTestTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schemes.csv")
	require.NoError(t, document.WriteTable(path, []model.SchemeRecord{
		{Name: "PM Kisan", Department: "Ministry Of Agriculture", Description: "Income support for farmers", Tags: []string{"Farmer"}},
		{Name: "Kerala Housing", Department: "Government of Kerala", Description: "Housing support", Tags: []string{"Housing"}},
	}))
	return path
}

func newTestProcessor(store vectorstore.Store, repo *memChunkRepo, table string) *Processor {
	return NewProcessor(
		&hashEmbedder{dims: 32},
		store,
		repo,
		config.MinIOConfig{},
		config.EmbeddingConfig{Model: "test-model"},
		table,
	)
}

func TestProcessIngestsAllRows(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	repo := &memChunkRepo{}
	p := newTestProcessor(store, repo, writeTestTable(t))

	require.NoError(t, p.Process(context.Background(), tasks.IngestTask{}))

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, repo.rows, 2)
	assert.Equal(t, "test-model", repo.rows[0].ModelVersion)
}

func TestProcessRegionChangeReplacesIndex(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	repo := &memChunkRepo{}
	p := newTestProcessor(store, repo, writeTestTable(t))

	require.NoError(t, p.Process(context.Background(), tasks.IngestTask{}))
	require.NoError(t, p.Process(context.Background(), tasks.IngestTask{Region: "Kerala"}))

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := store.Search(context.Background(), []float32{1}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Kerala Housing", results[0].Chunk.Title)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, "Kerala", repo.rows[0].Region)
}

func TestProcessIsIdempotent(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	repo := &memChunkRepo{}
	p := newTestProcessor(store, repo, writeTestTable(t))

	require.NoError(t, p.Process(context.Background(), tasks.IngestTask{}))
	require.NoError(t, p.Process(context.Background(), tasks.IngestTask{}))

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, repo.rows, 2)
}

func TestProcessRejectsUnknownRegion(t *testing.T) {
	p := newTestProcessor(vectorstore.NewMemoryStore(), &memChunkRepo{}, writeTestTable(t))
	err := p.Process(context.Background(), tasks.IngestTask{Region: "Atlantis"})
	assert.Error(t, err)
}

func TestProcessFailsOnEmptyChunkSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(model.TableHeader, ",")+"\n"), 0o644))

	p := newTestProcessor(vectorstore.NewMemoryStore(), &memChunkRepo{}, path)
	err := p.Process(context.Background(), tasks.IngestTask{})
	assert.Error(t, err)
}
