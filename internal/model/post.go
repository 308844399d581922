package model

// Post is a published WordPress content row. The wp_posts table is owned by
// WordPress itself; this system only ever reads it.
type Post struct {
	ID      uint64 `gorm:"column:ID;primaryKey" json:"id"`
	Content string `gorm:"column:post_content" json:"content"`
	Status  string `gorm:"column:post_status" json:"-"`
}

func (Post) TableName() string {
	return "wp_posts"
}
