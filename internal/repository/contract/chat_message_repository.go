package contract

import (
	"context"

	"veritus-be/internal/entity"
	"veritus-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// MarkSummarized flips is_summarized on the given messages in one update.
	MarkSummarized(ctx context.Context, messageIds []uuid.UUID) error
}
