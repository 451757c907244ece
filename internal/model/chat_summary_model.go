package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSummary struct {
	ChatId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ChatSummary) TableName() string {
	return "chat_summaries"
}
