package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpanswers/internal/ai"
	"wpanswers/internal/embed"
	"wpanswers/internal/model"
)

type fakePostLister struct {
	posts []model.Post
	err   error
}

func (f fakePostLister) ListPublished() ([]model.Post, error) {
	return f.posts, f.err
}

type fakeEmbeddingWriter struct {
	rows    []model.Embedding
	batches int
	err     error
}

func (f *fakeEmbeddingWriter) InsertBatch(rows []model.Embedding) error {
	if f.err != nil {
		return f.err
	}
	f.batches++
	f.rows = append(f.rows, rows...)
	return nil
}

// flakyEmbedService fails the embedding calls whose index is listed.
type flakyEmbedService struct {
	calls     int
	failCalls map[int]bool
}

func (s *flakyEmbedService) EmbedBatch(_ context.Context, inputs []string, _ ai.InputType, _ bool) ([][]float32, error) {
	call := s.calls
	s.calls++
	if s.failCalls[call] {
		return nil, errors.New("embedding service error")
	}
	vectors := make([][]float32, len(inputs))
	for i := range inputs {
		vectors[i] = []float32{0.5, -0.25}
	}
	return vectors, nil
}

func newIngest(posts []model.Post, store *fakeEmbeddingWriter, svc embed.Service, batchSize, chunkSize int) *IngestService {
	return NewIngestService(fakePostLister{posts: posts}, store, embed.NewBatcher(svc, batchSize), chunkSize)
}

func TestIngestService_Run(t *testing.T) {
	posts := []model.Post{
		{ID: 10, Content: "<p>" + strings.Repeat("alpha ", 30) + "</p>"}, // 179 chars cleaned
		{ID: 20, Content: "<p>short post</p>"},
		{ID: 30, Content: "<script>skip()</script>"}, // cleans to nothing
	}

	t.Run("chunks embedded and persisted in order", func(t *testing.T) {
		store := &fakeEmbeddingWriter{}
		svc := &flakyEmbedService{}
		ingest := newIngest(posts, store, svc, 96, 96)

		report, err := ingest.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, report.Posts, "empty posts are skipped")
		assert.Equal(t, 3, report.Chunks)
		assert.Equal(t, 3, report.Embedded)
		assert.Zero(t, report.FailedChunks)

		require.Len(t, store.rows, 3)
		assert.Equal(t, uint64(10), store.rows[0].PostID)
		assert.Equal(t, 0, store.rows[0].Seq)
		assert.Equal(t, uint64(10), store.rows[1].PostID)
		assert.Equal(t, 1, store.rows[1].Seq)
		assert.Equal(t, uint64(20), store.rows[2].PostID)
		assert.Equal(t, 0, store.rows[2].Seq)

		for _, row := range store.rows {
			assert.LessOrEqual(t, len([]rune(row.Content)), 96)
			assert.Equal(t, "[0.5,-0.25]", row.Vec)
		}
	})

	t.Run("failed batch skipped, run continues", func(t *testing.T) {
		store := &fakeEmbeddingWriter{}
		svc := &flakyEmbedService{failCalls: map[int]bool{0: true}}
		ingest := newIngest(posts, store, svc, 96, 96)

		report, err := ingest.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, report.FailedChunks, "both chunks of the first post share the failed batch")
		assert.Equal(t, 1, report.FailedPosts)
		assert.Equal(t, 1, report.Embedded)
		require.Len(t, store.rows, 1)
		assert.Equal(t, uint64(20), store.rows[0].PostID)
	})

	t.Run("store failure ends the run", func(t *testing.T) {
		store := &fakeEmbeddingWriter{err: errors.New("disk full")}
		svc := &flakyEmbedService{}
		ingest := newIngest(posts, store, svc, 96, 96)

		_, err := ingest.Run(context.Background())
		require.Error(t, err)
	})

	t.Run("list failure ends the run", func(t *testing.T) {
		ingest := NewIngestService(fakePostLister{err: errors.New("no connection")}, &fakeEmbeddingWriter{}, embed.NewBatcher(&flakyEmbedService{}, 96), 96)
		_, err := ingest.Run(context.Background())
		require.Error(t, err)
	})

	t.Run("re-running appends duplicates", func(t *testing.T) {
		// Ingestion is append-only with no dedup: a second run over the same
		// posts doubles the rows. Expected behavior, not a bug.
		store := &fakeEmbeddingWriter{}
		svc := &flakyEmbedService{}
		ingest := newIngest(posts, store, svc, 96, 96)

		_, err := ingest.Run(context.Background())
		require.NoError(t, err)
		first := len(store.rows)

		_, err = ingest.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2*first, len(store.rows))
	})

	t.Run("batch boundary persists before next batch", func(t *testing.T) {
		long := model.Post{ID: 5, Content: strings.Repeat("b", 25)}
		store := &fakeEmbeddingWriter{}
		svc := &flakyEmbedService{}
		// chunk size 5 → 5 chunks; batch size 2 → 3 batches
		ingest := newIngest([]model.Post{long}, store, svc, 2, 5)

		report, err := ingest.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 5, report.Embedded)
		assert.Equal(t, 3, store.batches)
		assert.Equal(t, 3, svc.calls)
		for i, row := range store.rows {
			assert.Equal(t, i, row.Seq)
		}
	})
}
