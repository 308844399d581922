// Package embed groups chunk texts into service-sized batches and turns them
// into vectors, isolating failures per batch.
package embed

import (
	"context"
	"fmt"
	"log"

	"wpanswers/internal/ai"
)

// Service is the slice of the inference client the batcher needs. The
// concrete client carries its config; tests substitute a stub.
type Service interface {
	EmbedBatch(ctx context.Context, inputs []string, kind ai.InputType, truncate bool) ([][]float32, error)
}

// ClientService binds an ai.Client to one embedding configuration.
type ClientService struct {
	Client *ai.Client
	Config ai.EmbeddingConfig
}

func (s ClientService) EmbedBatch(ctx context.Context, inputs []string, kind ai.InputType, truncate bool) ([][]float32, error) {
	return s.Client.EmbedBatch(ctx, s.Config, inputs, kind, truncate)
}

// Result pairs one input text with its vector, or with the error of the batch
// it belonged to.
type Result struct {
	Text   string
	Vector []float32
	Err    error
}

type Batcher struct {
	svc       Service
	batchSize int
}

// NewBatcher returns a batcher that submits at most batchSize inputs per
// embedding call.
func NewBatcher(svc Service, batchSize int) *Batcher {
	if batchSize <= 0 {
		batchSize = 96
	}
	return &Batcher{svc: svc, batchSize: batchSize}
}

// EmbedAll embeds every text, in order, issuing one service call per group of
// at most batchSize inputs. A failed call marks that group's texts failed and
// processing continues with the next group, so one remote error never
// discards the rest of the run.
func (b *Batcher) EmbedAll(ctx context.Context, texts []string, kind ai.InputType) []Result {
	results := make([]Result, 0, len(texts))
	_ = b.EmbedAllFunc(ctx, texts, kind, func(_ int, batch []Result) error {
		results = append(results, batch...)
		return nil
	})
	return results
}

// EmbedAllFunc is EmbedAll with a per-batch sink, invoked after each batch
// completes (successfully or not) and before the next one is submitted.
// Ingestion uses the sink to persist a batch's vectors immediately, so a
// partial run leaves a consistent, queryable subset. A sink error aborts the
// run; embedding errors do not.
func (b *Batcher) EmbedAllFunc(ctx context.Context, texts []string, kind ai.InputType, sink func(offset int, batch []Result) error) error {
	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		group := texts[start:end]

		batch := make([]Result, len(group))
		vectors, err := b.svc.EmbedBatch(ctx, group, kind, true)
		if err != nil {
			log.Printf("embed batch [%d:%d) failed: %v", start, end, err)
			for i := range group {
				batch[i] = Result{Text: group[i], Err: err}
			}
		} else {
			for i := range group {
				batch[i] = Result{Text: group[i], Vector: vectors[i]}
			}
		}

		if sink != nil {
			if err := sink(start, batch); err != nil {
				return fmt.Errorf("batch sink failed at offset %d: %w", start, err)
			}
		}
	}
	return nil
}

// EmbedQuery embeds a single question. Unlike document ingestion there is no
// fallback: the caller cannot proceed without a query vector.
func (b *Batcher) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vectors, err := b.svc.EmbedBatch(ctx, []string{query}, ai.InputQuery, true)
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 query vector, got %d", len(vectors))
	}
	return vectors[0], nil
}
