package model

import "time"

// QueryLog records an answered question for offline review. Rows are written
// asynchronously by the query-log worker, never on the request path.
type QueryLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	Answer     string    `gorm:"type:text" json:"answer"`
	Cited      int       `json:"cited"` // number of chunks supplied as context
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
