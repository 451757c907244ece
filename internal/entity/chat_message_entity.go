package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatId       uuid.UUID `gorm:"type:uuid;index"`
	Sender       string
	Text         string
	IsSummarized bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
