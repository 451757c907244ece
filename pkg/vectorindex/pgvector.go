package vectorindex

import (
	"context"
	"fmt"

	"veritus-be/internal/repository/unitofwork"
)

// PgVectorIndex serves queries from the statute_chunks table.
type PgVectorIndex struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ Index = &PgVectorIndex{}

func NewPgVectorIndex(uowFactory unitofwork.RepositoryFactory) *PgVectorIndex {
	return &PgVectorIndex{uowFactory: uowFactory}
}

func (i *PgVectorIndex) Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Match, error) {
	uow := i.uowFactory.NewUnitOfWork(ctx)
	hits, err := uow.StatuteChunkRepository().SearchSimilarWithScore(ctx, vector, topK, filter.Country, filter.States)
	if err != nil {
		return nil, fmt.Errorf("statute search: %w", err)
	}

	matches := make([]Match, len(hits))
	for idx, hit := range hits {
		matches[idx] = Match{
			Id:    hit.Id,
			Score: hit.Similarity,
			Text:  hit.Text,
			Metadata: map[string]string{
				"title":         hit.Title,
				"document_type": hit.DocumentType,
				"country":       hit.Country,
				"state":         hit.State,
				"source_url":    hit.SourceUrl,
			},
		}
	}
	return matches, nil
}
