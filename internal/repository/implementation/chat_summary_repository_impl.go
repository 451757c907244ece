package implementation

import (
	"context"
	"errors"

	"veritus-be/internal/entity"
	"veritus-be/internal/mapper"
	"veritus-be/internal/model"
	"veritus-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatSummaryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatSummaryRepository(db *gorm.DB) contract.ChatSummaryRepository {
	return &ChatSummaryRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatSummaryRepositoryImpl) Upsert(ctx context.Context, summary *entity.ChatSummary) error {
	m := r.mapper.ChatSummaryToModel(summary)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*summary = *r.mapper.ChatSummaryToEntity(m)
	return nil
}

func (r *ChatSummaryRepositoryImpl) FindByChatId(ctx context.Context, chatId uuid.UUID) (*entity.ChatSummary, error) {
	var m model.ChatSummary
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatSummaryToEntity(&m), nil
}
