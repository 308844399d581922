package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"wpanswers/internal/model"
)

// ErrGenerationUnavailable means the generation call failed or returned no
// candidate text. No fallback answer is synthesized; the caller decides
// whether to surface the retrieved chunks without prose instead.
var ErrGenerationUnavailable = errors.New("text generation unavailable")

// promptInstruction asks the model to stay inside the supplied text and to
// say so when the text has no answer, instead of improvising one.
const promptInstruction = "Answer the question based on the text provided and also return the relevant document numbers where you found the answer. If the text doesn't contain the answer, reply that the answer is not available."

// Generator runs one prompt through the generation model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnswerCache returns a previously shaped answer for an identical question.
type AnswerCache interface {
	GetAnswer(ctx context.Context, question string) (*model.RAGAnswer, bool, error)
	SetAnswer(ctx context.Context, question string, answer *model.RAGAnswer) error
}

// AsyncQueryLogPublisher hands an answered question to the logging queue.
type AsyncQueryLogPublisher interface {
	Publish(ctx context.Context, entry model.QueryLog) error
}

// RAGService answers questions from stored content: retrieve similar chunks,
// compose them into a grounded prompt, generate once, and shape the answer
// with its citations. Cache and query logging sit outside the core flow and
// are both optional.
type RAGService struct {
	retriever *Retriever
	generator Generator
	cache     AnswerCache
	publisher AsyncQueryLogPublisher
}

func NewRAGService(retriever *Retriever, generator Generator, cache AnswerCache, publisher AsyncQueryLogPublisher) *RAGService {
	return &RAGService{
		retriever: retriever,
		generator: generator,
		cache:     cache,
		publisher: publisher,
	}
}

// Search exposes the retrieval step alone, for callers that want the matching
// chunks without generated prose (the degraded surface when generation is
// down).
func (s *RAGService) Search(ctx context.Context, question string, k int) ([]model.RetrievedChunk, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidInput
	}
	return s.retriever.Retrieve(ctx, question, k)
}

// Ask answers one question. Retrieval coming back empty is not an error: the
// prompt proceeds with empty context and the model is expected to state that
// the answer is unavailable. The generation call is attempted exactly once.
func (s *RAGService) Ask(ctx context.Context, userID uint, question string) (*model.RAGAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidInput
	}

	if s.cache != nil {
		cached, ok, err := s.cache.GetAnswer(ctx, question)
		if err != nil {
			log.Printf("answer cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	started := time.Now()
	docs, err := s.retriever.Retrieve(ctx, question, 0)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, BuildPrompt(question, docs))
	if err != nil {
		log.Printf("generate answer failed: %v", err)
		return nil, ErrGenerationUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrGenerationUnavailable
	}

	answer := &model.RAGAnswer{
		Question:  question,
		Text:      text,
		Documents: docs,
	}

	if s.cache != nil {
		if err := s.cache.SetAnswer(ctx, question, answer); err != nil {
			log.Printf("answer cache write failed: %v", err)
		}
	}
	if s.publisher != nil {
		entry := model.QueryLog{
			UserID:     userID,
			Question:   question,
			Answer:     text,
			Cited:      len(docs),
			DurationMS: time.Since(started).Milliseconds(),
		}
		if err := s.publisher.Publish(ctx, entry); err != nil {
			log.Printf("publish query log failed: %v", err)
		}
	}

	return answer, nil
}

// BuildPrompt concatenates the retrieved chunks in ranking order, separated
// by line breaks, followed by the literal question and the grounding
// instruction.
func BuildPrompt(question string, docs []model.RetrievedChunk) string {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}

	var b strings.Builder
	b.WriteString("Text: ")
	b.WriteString(strings.Join(texts, "\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(promptInstruction)
	return b.String()
}
