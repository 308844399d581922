package repository

import (
	"fmt"

	"gorm.io/gorm"

	"wpanswers/internal/model"
	"wpanswers/internal/vector"
)

// EmbeddingRepository persists chunk vectors and runs similarity queries.
// The vec column uses the store's native VECTOR type, so inserts and lookups
// go through string_to_vector()/vector_distance() rather than gorm's mapper.
type EmbeddingRepository struct {
	db *gorm.DB
}

func NewEmbeddingRepository(db *gorm.DB) *EmbeddingRepository {
	return &EmbeddingRepository{db: db}
}

// InsertBatch appends one batch of embedding rows in a single transaction.
// Rows are never updated or deleted here; re-ingesting the same post appends
// duplicates.
func (r *EmbeddingRepository) InsertBatch(rows []model.Embedding) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Exec(
				"INSERT INTO wp_embeddings (content, vec, post_id, seq) VALUES (?, string_to_vector(?), ?, ?)",
				rows[i].Content, rows[i].Vec, rows[i].PostID, rows[i].Seq,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert embedding batch failed: %w", err)
	}
	return nil
}

// NearestNeighbors returns up to limit chunks ranked by the store's distance
// function, most similar first. Ranking order is preserved as returned; no
// re-ranking or per-post dedup happens here or above.
func (r *EmbeddingRepository) NearestNeighbors(vec []float32, limit int) ([]model.RetrievedChunk, error) {
	var rows []model.RetrievedChunk
	if err := r.db.Raw(
		"SELECT id, content, post_id FROM wp_embeddings ORDER BY vector_distance(vec, string_to_vector(?)) DESC LIMIT ?",
		vector.Serialize(vec), limit,
	).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("nearest neighbor query failed: %w", err)
	}
	return rows, nil
}
