package service

import (
	"context"
	"encoding/json"
	"fmt"

	"veritus-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// SummaryEventPublisher puts summary-updated events on the in-process bus.
type SummaryEventPublisher struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewSummaryEventPublisher(pubSub *gochannel.GoChannel, topicName string) *SummaryEventPublisher {
	return &SummaryEventPublisher{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (p *SummaryEventPublisher) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.EventType())
	return p.pubSub.Publish(p.topicName, msg)
}
