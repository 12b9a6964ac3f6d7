// Package model defines the data structures shared across the application.
package model

import "fmt"

// TableHeader is the fixed four-column header of the scraped scheme table.
var TableHeader = []string{
	"Scheme Name",
	"Ministries/Departments",
	"Description & Benefits",
	"Tags",
}

// SchemeRecord is one scraped scheme card. A record is identified by its row
// position in the table; there is no natural key.
type SchemeRecord struct {
	Name        string
	Department  string
	Description string
	Tags        []string
}

// DocumentChunk is a bounded-size slice of a formatted scheme row, the unit
// of embedding and retrieval. SourceRow points back at the originating table
// row.
type DocumentChunk struct {
	Text      string `json:"text"`
	SourceRow int    `json:"sourceRow"`
	Title     string `json:"title"`
}

// ScoredChunk is a retrieved chunk together with its similarity score.
type ScoredChunk struct {
	Chunk DocumentChunk `json:"chunk"`
	Score float64       `json:"score"`
}

// ChunkDoc is the document shape stored in the Elasticsearch vector index.
type ChunkDoc struct {
	VectorID     string    `json:"vector_id"` // rowIndex_chunkID
	RowIndex     int       `json:"row_index"`
	ChunkID      int       `json:"chunk_id"`
	Title        string    `json:"title"`
	Region       string    `json:"region"`
	TextContent  string    `json:"text_content"`
	Vector       []float32 `json:"vector"`
	ModelVersion string    `json:"model_version"`
}

// NewVectorID builds the index document id from chunk provenance.
func NewVectorID(rowIndex, chunkID int) string {
	return fmt.Sprintf("%d_%d", rowIndex, chunkID)
}
