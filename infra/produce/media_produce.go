package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	MediaCleanupQueue      = "media.cleanup"
	MediaCleanupExchange   = "media.exchange"
	MediaCleanupRoutingKey = "media.cleanup"
)

// MediaCleanupMessage carries blob public ids whose synchronous deletion
// failed. The consumer retries them so orphaned blobs do not accumulate.
type MediaCleanupMessage struct {
	PublicIDs []string `json:"public_ids"`
	Reason    string   `json:"reason"`
	Timestamp int64    `json:"timestamp"`
}

type MediaCleanupService struct {
	channel *amqp.Channel
}

func InitMediaCleanupService(channel *amqp.Channel) *MediaCleanupService {
	service := &MediaCleanupService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		MediaCleanupExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Media exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		MediaCleanupQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Media Cleanup queue: " + err.Error())
	}

	err = channel.QueueBind(
		MediaCleanupQueue,
		MediaCleanupRoutingKey,
		MediaCleanupExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Media Cleanup queue: " + err.Error())
	}

	return service
}

// PublishCleanup enqueues blob ids for deferred deletion.
func (s *MediaCleanupService) PublishCleanup(ctx context.Context, publicIDs []string, reason string) error {
	if len(publicIDs) == 0 {
		return nil
	}

	message := MediaCleanupMessage{
		PublicIDs: publicIDs,
		Reason:    reason,
		Timestamp: time.Now().Unix(),
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		MediaCleanupExchange,
		MediaCleanupRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
