package contract

import (
	"context"

	"veritus-be/internal/entity"

	"github.com/google/uuid"
)

type ChatSummaryRepository interface {
	// Upsert inserts the summary row or replaces its content when one exists.
	Upsert(ctx context.Context, summary *entity.ChatSummary) error
	// FindByChatId returns nil, nil when the chat has no summary yet.
	FindByChatId(ctx context.Context, chatId uuid.UUID) (*entity.ChatSummary, error)
}
