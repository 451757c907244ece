package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Sender       string    `gorm:"type:varchar(10);not null"`
	Text         string    `gorm:"type:text;not null"`
	IsSummarized bool      `gorm:"not null;default:false;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
