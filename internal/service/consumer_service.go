package service

import (
	"context"
	"encoding/json"

	"bookease-be/internal/dto"
	"bookease-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	notifications INotificationService
	logger        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	notifications INotificationService,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		notifications: notifications,
		logger:        logger,
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
	var payload dto.BookingNotificationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // redelivery cannot fix a bad payload
		return
	}

	// Failed deliveries are logged and acked, never redelivered.
	if err := cs.notifications.Deliver(ctx, payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to deliver booking notification", map[string]interface{}{
			"bookingId": payload.BookingId.String(),
			"kind":      payload.Kind,
			"error":     err.Error(),
		})
	}
	msg.Ack()
}
