package contract

import (
	"context"

	"veritus-be/internal/entity"
)

type StatuteChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.StatuteChunk) error
	Count(ctx context.Context) (int64, error)
	// SearchSimilarWithScore runs a cosine similarity search restricted to the
	// given country and any of the given states. Empty filter values are skipped.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, country string, states []string) ([]*entity.StatuteChunkHit, error)
}
