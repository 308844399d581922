package model

// Embedding is one persisted (chunk text, vector, source post) row.
// Rows are append-only: ingestion never updates or deletes them, and
// re-running the indexer over the same posts produces duplicates.
//
// Vec holds the canonical bracketed form ("[0.1,0.2,...]") that HeatWave's
// string_to_vector() accepts; inserts and similarity queries go through raw
// SQL so the column stays in the store's native VECTOR type.
type Embedding struct {
	ID      uint64 `gorm:"column:id;primaryKey" json:"id"`
	Content string `gorm:"column:content" json:"content"`
	Vec     string `gorm:"column:vec" json:"-"`
	PostID  uint64 `gorm:"column:post_id" json:"post_id"`
	Seq     int    `gorm:"column:seq" json:"seq"` // chunk position within the post
}

func (Embedding) TableName() string {
	return "wp_embeddings"
}

// RetrievedChunk is one similarity hit for a question: the embedding row's
// identity, its stored text, and the post it came from. Transient, built per
// query, ordered by descending similarity.
type RetrievedChunk struct {
	ID      uint64 `json:"id"`
	Content string `json:"snippet"`
	PostID  uint64 `json:"post_id"`
}
