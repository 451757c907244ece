package mapper

import (
	"time"

	"veritus-be/internal/entity"
	"veritus-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var updatedAt *time.Time
	if !msg.UpdatedAt.IsZero() {
		t := msg.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatMessage{
		Id:           msg.Id,
		ChatId:       msg.ChatId,
		Sender:       msg.Sender,
		Text:         msg.Text,
		IsSummarized: msg.IsSummarized,
		CreatedAt:    msg.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var updatedAt time.Time
	if msg.UpdatedAt != nil {
		updatedAt = *msg.UpdatedAt
	}

	return &model.ChatMessage{
		Id:           msg.Id,
		ChatId:       msg.ChatId,
		Sender:       msg.Sender,
		Text:         msg.Text,
		IsSummarized: msg.IsSummarized,
		CreatedAt:    msg.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

// Summary Mappers

func (m *ChatMapper) ChatSummaryToEntity(s *model.ChatSummary) *entity.ChatSummary {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSummary{
		ChatId:    s.ChatId,
		Content:   s.Content,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ChatMapper) ChatSummaryToModel(s *entity.ChatSummary) *model.ChatSummary {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSummary{
		ChatId:    s.ChatId,
		Content:   s.Content,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
