package model

// RAGAnswer is the shaped result of one answered question: the generated
// prose plus the exact chunks, in retrieval order, that were supplied as
// context. Transient, one per query.
type RAGAnswer struct {
	Question  string           `json:"question"`
	Text      string           `json:"text"`
	Documents []RetrievedChunk `json:"documents"`
}
