// internal/domain/order/tracker.go
package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Tracker fans order status updates out through Redis pub/sub so customers
// can follow an in-flight order. It implements StatusNotifier on the publish
// side; Track is the subscribe side.
type Tracker struct {
	redisClient *redis.Client
}

// NewTracker creates a new status tracker
func NewTracker(redisClient *redis.Client) *Tracker {
	return &Tracker{redisClient: redisClient}
}

func statusChannel(orderID uint) string {
	return fmt.Sprintf("orders:status:%d", orderID)
}

// PublishStatus broadcasts a status change to everyone tracking the order.
func (t *Tracker) PublishStatus(ctx context.Context, update StatusUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode status update: %w", err)
	}

	if err := t.redisClient.Publish(ctx, statusChannel(update.OrderID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish status update: %w", err)
	}
	return nil
}

// Track streams status updates for one order until ctx is cancelled. The
// returned channel closes when the subscription ends.
func (t *Tracker) Track(ctx context.Context, orderID uint) (<-chan StatusUpdate, error) {
	sub := t.redisClient.Subscribe(ctx, statusChannel(orderID))

	// Force the subscription to be established before we hand out the stream
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to order status: %w", err)
	}

	updates := make(chan StatusUpdate)
	go func() {
		defer close(updates)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var update StatusUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					continue
				}
				select {
				case updates <- update:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return updates, nil
}
