package repository

import (
	"fmt"

	"gorm.io/gorm"

	"wpanswers/internal/model"
)

type QueryLogRepository struct {
	db *gorm.DB
}

func NewQueryLogRepository(db *gorm.DB) *QueryLogRepository {
	return &QueryLogRepository{db: db}
}

func (r *QueryLogRepository) Create(entry *model.QueryLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create query log failed: %w", err)
	}
	return nil
}

func (r *QueryLogRepository) ListByUserID(userID uint, limit int) ([]model.QueryLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []model.QueryLog
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list query logs failed: %w", err)
	}
	return logs, nil
}
