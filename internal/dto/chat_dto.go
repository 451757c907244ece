package dto

import (
	"time"

	"github.com/google/uuid"
)

// AskRequest is the body of the streaming ask endpoint.
type AskRequest struct {
	Query   string `json:"query" validate:"required"`
	Id      string `json:"id" validate:"required,uuid4"`
	Lang    string `json:"lang"`
	Country string `json:"country"`
	State   string `json:"state"`
}

type AppendMessageRequest struct {
	ChatId string `json:"chat_id" validate:"required,uuid4"`
	Sender string `json:"sender" validate:"required,oneof=user ai"`
	Text   string `json:"text" validate:"required"`
}

type DocumentSummaryRequest struct {
	Text string `json:"text" validate:"required"`
	Lang string `json:"lang"`
}

// MessageHistoryQuery narrows the history listing. Zero values mean no
// filtering and no pagination.
type MessageHistoryQuery struct {
	Sender string `query:"sender" validate:"omitempty,oneof=user ai"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

type ChatMessageResponse struct {
	Id           uuid.UUID `json:"id"`
	ChatId       uuid.UUID `json:"chat_id"`
	Sender       string    `json:"sender"`
	Text         string    `json:"text"`
	IsSummarized bool      `json:"is_summarized"`
	CreatedAt    time.Time `json:"created_at"`
}

type ChatSummaryResponse struct {
	ChatId    uuid.UUID  `json:"chat_id"`
	Content   string     `json:"content"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// StreamTokenPayload is the wire shape of one SSE data line. Exactly one of
// Token or Error is set.
type StreamTokenPayload struct {
	Token string `json:"token,omitempty"`
	Error string `json:"error,omitempty"`
}

// SummaryUpdatedMessage is the payload pushed over the websocket hub when a
// chat's rolling summary changes.
type SummaryUpdatedMessage struct {
	Type    string `json:"type"`
	ChatId  string `json:"chat_id"`
	Summary string `json:"summary"`
}
