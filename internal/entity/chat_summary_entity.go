package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSummary is the rolling conversation summary, one row per chat.
type ChatSummary struct {
	ChatId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
