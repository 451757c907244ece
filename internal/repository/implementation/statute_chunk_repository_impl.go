package implementation

import (
	"context"

	"veritus-be/internal/entity"
	"veritus-be/internal/mapper"
	"veritus-be/internal/model"
	"veritus-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatuteChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StatuteMapper
}

func NewStatuteChunkRepository(db *gorm.DB) contract.StatuteChunkRepository {
	return &StatuteChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewStatuteMapper(),
	}
}

func (r *StatuteChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.StatuteChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.StatuteChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}
	// Re-running the seeder must not duplicate rows
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "text", "document_type", "country", "state", "source_url", "embedding"}),
		}).
		CreateInBatches(models, 100).Error
}

func (r *StatuteChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.StatuteChunk{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchSimilarWithScore returns the nearest chunks with cosine similarity.
// Cosine distance in pgvector is 1 - cosine_similarity, so similarity is
// computed as 1 - (embedding <=> query_vector).
func (r *StatuteChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, country string, states []string) ([]*entity.StatuteChunkHit, error) {
	if limit <= 0 {
		limit = 8
	}

	type result struct {
		model.StatuteChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Model(&model.StatuteChunk{}).
		Select("*, 1 - (embedding <=> ?) as similarity", queryVector)

	if country != "" {
		query = query.Where("country = ?", country)
	}
	if len(states) > 0 {
		query = query.Where("state IN ?", states)
	}

	// Ordering must be expressed through Clauses: gorm's Order only accepts
	// strings and OrderBy clauses, anything else is dropped. Ordering by the
	// raw distance expression keeps the hnsw index usable.
	err := query.
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{queryVector}},
		}).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	hits := make([]*entity.StatuteChunkHit, len(results))
	for i, res := range results {
		hits[i] = &entity.StatuteChunkHit{
			StatuteChunk: *r.mapper.ToEntity(&res.StatuteChunk),
			Similarity:   res.Similarity,
		}
	}
	return hits, nil
}
