package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/propertyhub/propertyhub/infra"
	"github.com/propertyhub/propertyhub/infra/produce"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MediaCleanupConsumer retries blob deletions that failed during the
// synchronous best-effort pass after a listing mutation.
type MediaCleanupConsumer struct {
	channel *amqp.Channel
	infra   *infra.Infra
}

func NewMediaCleanupConsumer(channel *amqp.Channel, infra *infra.Infra) *MediaCleanupConsumer {
	return &MediaCleanupConsumer{
		channel: channel,
		infra:   infra,
	}
}

func (c *MediaCleanupConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.MediaCleanupQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register media cleanup consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Media Consumer] Started listening for cleanup jobs on queue: %s", produce.MediaCleanupQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Media Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Media Consumer] Channel closed")
					return
				}
				c.handleCleanup(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *MediaCleanupConsumer) handleCleanup(ctx context.Context, msg amqp.Delivery) {
	c.infra.Logger.InfoWithContextf(ctx, "[Media Consumer] Received message: %s", string(msg.Body))

	var payload produce.MediaCleanupMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Media Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	if len(payload.PublicIDs) == 0 {
		_ = msg.Ack(false)
		return
	}

	maxRetries := 3
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = c.executeCleanup(ctx, payload.PublicIDs)
		if err == nil {
			c.infra.Logger.InfoWithContextf(ctx, "[Media Consumer] Cleaned up %d blobs (%s)", len(payload.PublicIDs), payload.Reason)
			_ = msg.Ack(false)
			return
		}

		c.infra.Logger.ErrorWithContextf(ctx, err, "[Media Consumer] Attempt %d/%d failed: %v", attempt, maxRetries, err)

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}

	// After max retries, reject and requeue
	c.infra.Logger.ErrorWithContextf(ctx, err, "[Media Consumer] Failed after %d attempts, requeueing message", maxRetries)
	_ = msg.Nack(false, true)
}

// executeCleanup deletes every blob in the batch. Deletion is idempotent on
// the store side, so a partially processed requeued batch is safe to replay.
func (c *MediaCleanupConsumer) executeCleanup(ctx context.Context, publicIDs []string) error {
	var failed int
	for _, publicID := range publicIDs {
		if err := c.infra.ImageStore.Delete(ctx, publicID); err != nil {
			c.infra.Logger.ErrorWithContextf(ctx, err, "[Media Consumer] Failed to delete blob %s: %v", publicID, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to delete %d of %d blobs", failed, len(publicIDs))
	}
	return nil
}
