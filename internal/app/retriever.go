package app

import (
	"context"
	"errors"
	"log"

	"wpanswers/internal/model"
)

// ErrEmbeddingUnavailable means the question could not be embedded. The query
// path has no fallback: without a query vector there is nothing to search.
var ErrEmbeddingUnavailable = errors.New("query embedding unavailable")

// QueryEmbedder turns one question into a query vector.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// NeighborSearcher ranks stored chunks against a query vector.
type NeighborSearcher interface {
	NearestNeighbors(vec []float32, limit int) ([]model.RetrievedChunk, error)
}

// Retriever embeds a question and returns the most similar stored chunks in
// the store's ranking order.
type Retriever struct {
	embedder QueryEmbedder
	store    NeighborSearcher
	topK     int
}

func NewRetriever(embedder QueryEmbedder, store NeighborSearcher, topK int) *Retriever {
	if topK <= 0 {
		topK = 20
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// Retrieve returns at most k chunks, most similar first. Two chunks of the
// same post may both appear; ranking is left entirely to the store. k <= 0
// uses the configured default.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]model.RetrievedChunk, error) {
	if k <= 0 {
		k = r.topK
	}

	vec, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		log.Printf("embed question failed: %v", err)
		return nil, ErrEmbeddingUnavailable
	}

	return r.store.NearestNeighbors(vec, k)
}
