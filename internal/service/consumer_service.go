package service

import (
	"context"
	"encoding/json"

	"veritus-be/internal/dto"
	"veritus-be/internal/pkg/logger"
	"veritus-be/internal/websocket"
	"veritus-be/pkg/events"
	natspub "veritus-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains summary-updated events from the in-process bus,
// pushes them to websocket subscribers and optionally fans them out to NATS.
type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	hub           *websocket.Hub
	natsPublisher *natspub.Publisher // optional
	logger        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	natsPublisher *natspub.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		hub:           hub,
		natsPublisher: natsPublisher,
		logger:        log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload struct {
		ChatId  string `json:"chat_id"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal summary event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed messages are not retriable
		return
	}

	chatId, err := uuid.Parse(payload.ChatId)
	if err != nil {
		cs.logger.Error("ConsumerService", "Summary event carries invalid chat id", map[string]interface{}{
			"chat_id": payload.ChatId,
		})
		msg.Ack()
		return
	}

	push, _ := json.Marshal(dto.SummaryUpdatedMessage{
		Type:    "summary_updated",
		ChatId:  payload.ChatId,
		Summary: payload.Summary,
	})
	cs.hub.SendToChat(chatId, push)

	if cs.natsPublisher != nil {
		event := events.NewSummaryUpdated(chatId, payload.Summary)
		if err := cs.natsPublisher.Publish(ctx, event); err != nil {
			// External fan-out is best effort
			cs.logger.Warn("ConsumerService", "NATS publish failed", map[string]interface{}{
				"chat_id": payload.ChatId,
				"error":   err.Error(),
			})
		}
	}

	msg.Ack()
}
