package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"veritus-be/internal/config"
	"veritus-be/internal/entity"
	"veritus-be/internal/repository/unitofwork"
	"veritus-be/pkg/database"
	"veritus-be/pkg/embedding"
	"veritus-be/pkg/utils"

	"github.com/fatih/color"
)

// Fixture texts longer than this are split into overlapping chunks so each
// row stays within the embedding model's useful input range.
const (
	maxChunkRunes = 2000
	chunkOverlap  = 200
)

// seedChunk mirrors the fixture file shape. Embeddings may be precomputed;
// missing ones are generated through the configured provider.
type seedChunk struct {
	Id           string    `json:"id"`
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	DocumentType string    `json:"document_type"`
	Country      string    `json:"country"`
	State        string    `json:"state"`
	SourceUrl    string    `json:"source_url"`
	Embedding    []float32 `json:"embedding,omitempty"`
}

func main() {
	fixturePath := flag.String("file", "fixtures/statute_chunks.json", "path to the statute fixture file")
	flag.Parse()

	color.Cyan("🚀 Seeding statute corpus from %s\n", *fixturePath)

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	raw, err := os.ReadFile(*fixturePath)
	if err != nil {
		log.Fatalf("Error: Failed to read fixture file: %v", err)
	}

	var chunks []seedChunk
	if err := json.Unmarshal(raw, &chunks); err != nil {
		log.Fatalf("Error: Failed to parse fixture file: %v", err)
	}
	color.Yellow("Found %d chunks", len(chunks))

	provider, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Keys.GoogleGemini,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("Error: Failed to initialize embedding provider: %v", err)
	}

	ctx := context.Background()
	embedded := 0
	split := 0
	entities := make([]*entity.StatuteChunk, 0, len(chunks))
	for _, c := range chunks {
		parts := utils.SplitText(c.Text, maxChunkRunes, chunkOverlap)
		if len(parts) > 1 {
			split++
		}
		for i, part := range parts {
			id := c.Id
			if len(parts) > 1 {
				id = fmt.Sprintf("%s-part%d", c.Id, i+1)
			}

			vector := c.Embedding
			if len(vector) == 0 || len(parts) > 1 {
				vector, err = provider.Embed(ctx, part, embedding.TaskRetrievalDocument)
				if err != nil {
					color.Red("Failed to embed chunk %s: %v", id, err)
					continue
				}
				embedded++
			}
			entities = append(entities, &entity.StatuteChunk{
				Id:           id,
				Title:        c.Title,
				Text:         part,
				DocumentType: c.DocumentType,
				Country:      c.Country,
				State:        c.State,
				SourceUrl:    c.SourceUrl,
				Embedding:    vector,
			})
		}
	}
	if split > 0 {
		color.Yellow("Split %d oversized texts into overlapping chunks", split)
	}
	if embedded > 0 {
		color.Yellow("Generated %d embeddings via %s", embedded, cfg.Ai.EmbeddingProvider)
	}

	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	if err := uow.StatuteChunkRepository().CreateBulk(ctx, entities); err != nil {
		log.Fatalf("Error: Failed to insert chunks: %v", err)
	}

	total, err := uow.StatuteChunkRepository().Count(ctx)
	if err != nil {
		log.Fatalf("Error: Failed to count chunks: %v", err)
	}
	color.Green("✅ Seeded %d chunks (table now holds %d)", len(entities), total)
}
