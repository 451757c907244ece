package unitofwork

import (
	"context"

	"veritus-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatMessageRepository() contract.ChatMessageRepository
	ChatSummaryRepository() contract.ChatSummaryRepository
	StatuteChunkRepository() contract.StatuteChunkRepository
}
