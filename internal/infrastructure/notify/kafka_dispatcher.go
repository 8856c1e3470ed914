package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smt-platform/production-service/internal/domain"
	"github.com/smt-platform/production-service/pkg/kafka"
	"github.com/smt-platform/production-service/pkg/logging"
)

const messageSource = "production-service"

// KafkaDispatcher publishes role notifications to the outbound notifications
// topic. The notification gateway fans them out to the role inboxes.
type KafkaDispatcher struct {
	producer *kafka.Producer
	topic    string
	logger   *logging.Logger
}

func NewKafkaDispatcher(producer *kafka.Producer, logger *logging.Logger) *KafkaDispatcher {
	return &KafkaDispatcher{
		producer: producer,
		topic:    kafka.Topics.NotificationsOutbound,
		logger:   logger.WithComponent("notify"),
	}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	msgs := make([]*kafka.Message, 0, len(notifications))
	for _, n := range notifications {
		msgs = append(msgs, &kafka.Message{
			ID:      uuid.NewString(),
			Type:    "role-notification",
			Source:  messageSource,
			Key:     n.Title,
			Payload: n,
		})
	}

	start := time.Now()
	err := d.producer.PublishBatch(ctx, d.topic, msgs)
	d.logger.KafkaPublish(ctx, d.topic, "role-notification", err == nil, time.Since(start))
	return err
}
