package mapper

import (
	"veritus-be/internal/entity"
	"veritus-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type StatuteMapper struct{}

func NewStatuteMapper() *StatuteMapper {
	return &StatuteMapper{}
}

func (m *StatuteMapper) ToEntity(c *model.StatuteChunk) *entity.StatuteChunk {
	if c == nil {
		return nil
	}

	return &entity.StatuteChunk{
		Id:           c.Id,
		Title:        c.Title,
		Text:         c.Text,
		DocumentType: c.DocumentType,
		Country:      c.Country,
		State:        c.State,
		SourceUrl:    c.SourceUrl,
		Embedding:    c.Embedding.Slice(),
		CreatedAt:    c.CreatedAt,
	}
}

func (m *StatuteMapper) ToModel(c *entity.StatuteChunk) *model.StatuteChunk {
	if c == nil {
		return nil
	}

	return &model.StatuteChunk{
		Id:           c.Id,
		Title:        c.Title,
		Text:         c.Text,
		DocumentType: c.DocumentType,
		Country:      c.Country,
		State:        c.State,
		SourceUrl:    c.SourceUrl,
		Embedding:    pgvector.NewVector(c.Embedding),
		CreatedAt:    c.CreatedAt,
	}
}
