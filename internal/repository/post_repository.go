package repository

import (
	"fmt"

	"gorm.io/gorm"

	"wpanswers/internal/model"
)

// PostRepository reads WordPress content. It never writes: wp_posts belongs
// to WordPress.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// ListPublished returns every published post, ordered by id so ingestion
// order is stable across runs.
func (r *PostRepository) ListPublished() ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.
		Select("ID", "post_content").
		Where("post_status = ?", "publish").
		Order("ID").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list published posts failed: %w", err)
	}
	return posts, nil
}
