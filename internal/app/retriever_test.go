package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpanswers/internal/model"
)

type stubQueryEmbedder struct {
	vec []float32
	err error
}

func (s stubQueryEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return s.vec, s.err
}

type stubSearcher struct {
	rows      []model.RetrievedChunk
	err       error
	lastVec   []float32
	lastLimit int
}

func (s *stubSearcher) NearestNeighbors(vec []float32, limit int) ([]model.RetrievedChunk, error) {
	s.lastVec = vec
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.rows) {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func TestRetriever_Retrieve(t *testing.T) {
	rows := []model.RetrievedChunk{
		{ID: 7, Content: "Refunds are processed within 30 days.", PostID: 1},
		{ID: 3, Content: "Shipping takes 5 days.", PostID: 2},
		{ID: 9, Content: "Contact support by email.", PostID: 1},
	}

	t.Run("preserves store ranking order", func(t *testing.T) {
		store := &stubSearcher{rows: rows}
		r := NewRetriever(stubQueryEmbedder{vec: []float32{1, 0}}, store, 20)

		got, err := r.Retrieve(context.Background(), "refund policy?", 20)
		require.NoError(t, err)
		assert.Equal(t, rows, got)
		assert.Equal(t, []float32{1, 0}, store.lastVec)
	})

	t.Run("bounded to k", func(t *testing.T) {
		store := &stubSearcher{rows: rows}
		r := NewRetriever(stubQueryEmbedder{vec: []float32{1}}, store, 20)

		got, err := r.Retrieve(context.Background(), "q", 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, 2, store.lastLimit)
	})

	t.Run("default k when unset", func(t *testing.T) {
		store := &stubSearcher{rows: rows}
		r := NewRetriever(stubQueryEmbedder{vec: []float32{1}}, store, 15)

		_, err := r.Retrieve(context.Background(), "q", 0)
		require.NoError(t, err)
		assert.Equal(t, 15, store.lastLimit)
	})

	t.Run("empty store is not an error", func(t *testing.T) {
		store := &stubSearcher{}
		r := NewRetriever(stubQueryEmbedder{vec: []float32{1}}, store, 20)

		got, err := r.Retrieve(context.Background(), "q", 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("embedding failure has no fallback", func(t *testing.T) {
		store := &stubSearcher{rows: rows}
		r := NewRetriever(stubQueryEmbedder{err: errors.New("timeout")}, store, 20)

		_, err := r.Retrieve(context.Background(), "q", 5)
		require.ErrorIs(t, err, ErrEmbeddingUnavailable)
		assert.Nil(t, store.lastVec, "store must not be queried without a query vector")
	})

	t.Run("store failure propagates", func(t *testing.T) {
		store := &stubSearcher{err: errors.New("connection refused")}
		r := NewRetriever(stubQueryEmbedder{vec: []float32{1}}, store, 20)

		_, err := r.Retrieve(context.Background(), "q", 5)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmbeddingUnavailable)
	})
}
