// Package repository implements the data access layer.
package repository

import (
	"scheme-qa-go/internal/model"

	"gorm.io/gorm"
)

// ChunkRepository persists document chunks in MySQL. The ingest pipeline
// writes chunk rows before embedding so provenance survives an index rebuild.
type ChunkRepository interface {
	BatchCreate(rows []*model.ChunkRow) error
	DeleteAll() error
	FindAll() ([]*model.ChunkRow, error)
	FindByRowIndex(rowIndex int) ([]*model.ChunkRow, error)
	Migrate() error
}

type chunkRepository struct {
	db *gorm.DB
}

// NewChunkRepository creates a ChunkRepository backed by db.
func NewChunkRepository(db *gorm.DB) ChunkRepository {
	return &chunkRepository{db: db}
}

func (r *chunkRepository) Migrate() error {
	return r.db.AutoMigrate(&model.ChunkRow{})
}

func (r *chunkRepository) BatchCreate(rows []*model.ChunkRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(rows).Error
}

// DeleteAll clears the chunk table; used by the rebuild path before
// re-ingesting, mirroring the index reset.
func (r *chunkRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&model.ChunkRow{}).Error
}

func (r *chunkRepository) FindAll() ([]*model.ChunkRow, error) {
	var rows []*model.ChunkRow
	err := r.db.Order("row_index, chunk_id").Find(&rows).Error
	return rows, err
}

func (r *chunkRepository) FindByRowIndex(rowIndex int) ([]*model.ChunkRow, error) {
	var rows []*model.ChunkRow
	err := r.db.Where("row_index = ?", rowIndex).Order("chunk_id").Find(&rows).Error
	return rows, err
}
