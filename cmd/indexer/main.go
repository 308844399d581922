package main

import (
	"context"
	"log"

	"wpanswers/internal/ai"
	"wpanswers/internal/app"
	"wpanswers/internal/config"
	"wpanswers/internal/embed"
	mysqlClient "wpanswers/internal/platform/mysql"
	"wpanswers/internal/repository"
)

// The indexer is a batch job: it re-embeds every published post on each run
// and appends the resulting rows. Deduplication and compaction of
// wp_embeddings are handled outside this tool.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("connect mysql failed: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	batcher := embed.NewBatcher(embed.ClientService{
		Client: ai.NewClient(),
		Config: ai.EmbeddingConfig{
			BaseURL: cfg.GenAI.BaseURL,
			APIKey:  cfg.GenAI.APIKey,
			Model:   cfg.GenAI.EmbeddingModel,
		},
	}, cfg.RAG.BatchSize)

	ingest := app.NewIngestService(
		repository.NewPostRepository(db),
		repository.NewEmbeddingRepository(db),
		batcher,
		cfg.RAG.ChunkSize,
	)

	log.Printf("indexing published posts from %s/%s", cfg.MySQL.Host, cfg.MySQL.DB)
	report, err := ingest.Run(ctx)
	if report != nil {
		log.Printf("indexed %d posts: %d chunks, %d embedded, %d failed (%d posts affected)",
			report.Posts, report.Chunks, report.Embedded, report.FailedChunks, report.FailedPosts)
	}
	if err != nil {
		log.Fatalf("ingestion run failed: %v", err)
	}
}
