package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SUMMARY_UPDATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic for simple events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const SummaryUpdatedType = "SUMMARY_UPDATED"

// NewSummaryUpdated is emitted after the rolling summary of a chat is rewritten.
func NewSummaryUpdated(chatId uuid.UUID, summary string) Event {
	return BaseEvent{
		Type: SummaryUpdatedType,
		Data: map[string]interface{}{
			"chat_id": chatId.String(),
			"summary": summary,
		},
		OccurredAt: time.Now(),
	}
}
