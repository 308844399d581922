package app

import (
	"context"
	"log"

	"wpanswers/internal/ai"
	"wpanswers/internal/chunker"
	"wpanswers/internal/embed"
	"wpanswers/internal/model"
	"wpanswers/internal/textclean"
	"wpanswers/internal/vector"
)

// PostLister reads the published source documents.
type PostLister interface {
	ListPublished() ([]model.Post, error)
}

// EmbeddingWriter appends embedding rows to the store.
type EmbeddingWriter interface {
	InsertBatch(rows []model.Embedding) error
}

// IngestService runs the ingestion path: normalize each published post, chunk
// it, embed the chunks in batches, and persist the vectors. Posts are
// processed strictly one at a time, and each batch's rows are committed before
// the next batch is submitted, so a failure partway through leaves everything
// already ingested queryable.
type IngestService struct {
	posts     PostLister
	store     EmbeddingWriter
	batcher   *embed.Batcher
	chunkSize int
}

// IngestReport summarizes one run. FailedChunks counts chunks whose batch
// embedding call failed; those chunks are skipped, not retried.
type IngestReport struct {
	Posts        int `json:"posts"`
	Chunks       int `json:"chunks"`
	Embedded     int `json:"embedded"`
	FailedChunks int `json:"failed_chunks"`
	FailedPosts  int `json:"failed_posts"`
}

func NewIngestService(posts PostLister, store EmbeddingWriter, batcher *embed.Batcher, chunkSize int) *IngestService {
	return &IngestService{
		posts:     posts,
		store:     store,
		batcher:   batcher,
		chunkSize: chunkSize,
	}
}

// Run processes every published post. Embedding failures are absorbed per
// batch and reported; a store failure ends the run (rows committed for
// earlier posts and batches remain persisted).
func (s *IngestService) Run(ctx context.Context) (*IngestReport, error) {
	posts, err := s.posts.ListPublished()
	if err != nil {
		return nil, err
	}

	report := &IngestReport{}
	for _, post := range posts {
		text := textclean.Clean(post.Content)
		chunks, err := chunker.Split(text, s.chunkSize)
		if err != nil {
			return report, err
		}
		if len(chunks) == 0 {
			continue
		}

		report.Posts++
		report.Chunks += len(chunks)
		failedBefore := report.FailedChunks

		err = s.batcher.EmbedAllFunc(ctx, chunks, ai.InputDocument, func(offset int, batch []embed.Result) error {
			rows := make([]model.Embedding, 0, len(batch))
			for i, res := range batch {
				if res.Err != nil {
					report.FailedChunks++
					continue
				}
				rows = append(rows, model.Embedding{
					Content: res.Text,
					Vec:     vector.Serialize(res.Vector),
					PostID:  post.ID,
					Seq:     offset + i,
				})
			}
			if err := s.store.InsertBatch(rows); err != nil {
				return err
			}
			report.Embedded += len(rows)
			return nil
		})
		if err != nil {
			return report, err
		}

		if failed := report.FailedChunks - failedBefore; failed > 0 {
			report.FailedPosts++
			log.Printf("post %d: %d of %d chunks failed to embed", post.ID, failed, len(chunks))
		}
	}
	return report, nil
}
