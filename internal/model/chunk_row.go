package model

// ChunkRow is the persisted form of a DocumentChunk in the scheme_chunks
// table. Chunk rows are replaced wholesale whenever the region filter
// changes, mirroring the vector index rebuild.
type ChunkRow struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	RowIndex     int    `gorm:"not null;index;column:row_index"`
	ChunkID      int    `gorm:"not null;column:chunk_id"`
	Title        string `gorm:"type:varchar(255);column:title"`
	Region       string `gorm:"type:varchar(64);index;column:region"`
	TextContent  string `gorm:"type:text;column:text_content"`
	ModelVersion string `gorm:"type:varchar(50);column:model_version"`
}

func (ChunkRow) TableName() string {
	return "scheme_chunks"
}
