package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type StatuteChunk struct {
	Id           string          `gorm:"type:varchar(128);primaryKey"`
	Title        string          `gorm:"type:text"`
	Text         string          `gorm:"type:text;not null"`
	DocumentType string          `gorm:"type:varchar(64);index"`
	Country      string          `gorm:"type:varchar(64);index"`
	State        string          `gorm:"type:varchar(64);index"`
	SourceUrl    string          `gorm:"type:text"`
	Embedding    pgvector.Vector `gorm:"type:vector(1024)"` // nomic-embed-text dimension
	Metadata     datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
}

func (StatuteChunk) TableName() string {
	return "statute_chunks"
}
