package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
)

// Event types published when a meeting's action items change
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// ItemEvent is broadcast to subscribers of a meeting's live channel
type ItemEvent struct {
	Type string               `json:"type"`
	Item *entities.ActionItem `json:"item,omitempty"`
	ID   string               `json:"id,omitempty"`
}

// Bus fans out action item changes over Redis pub/sub, one channel per meeting
type Bus struct {
	client *redis.Client
	logger *zap.Logger
}

// NewBus creates a new event bus
func NewBus(client *redis.Client, logger *zap.Logger) *Bus {
	return &Bus{
		client: client,
		logger: logger,
	}
}

func channelFor(meetingID string) string {
	return fmt.Sprintf("meetact:items:%s", meetingID)
}

// PublishItem announces an inserted or updated action item
func (b *Bus) PublishItem(ctx context.Context, eventType string, item *entities.ActionItem) {
	b.publish(ctx, item.MeetingID.String(), ItemEvent{
		Type: eventType,
		Item: item,
	})
}

// PublishDelete announces a removed action item
func (b *Bus) PublishDelete(ctx context.Context, meetingID, itemID string) {
	b.publish(ctx, meetingID, ItemEvent{
		Type: EventDelete,
		ID:   itemID,
	})
}

// publish is best-effort: a failed broadcast never fails the write that caused it
func (b *Bus) publish(ctx context.Context, meetingID string, event ItemEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		if b.logger != nil {
			b.logger.Error("❌ Failed to marshal item event", zap.Error(err))
		}
		return
	}

	if err := b.client.Publish(ctx, channelFor(meetingID), payload).Err(); err != nil {
		if b.logger != nil {
			b.logger.Error("❌ Failed to publish item event",
				zap.String("meeting_id", meetingID),
				zap.Error(err))
		}
	}
}

// Subscribe opens a live channel for one meeting. The returned channel closes
// when ctx is cancelled.
func (b *Bus) Subscribe(ctx context.Context, meetingID string) (<-chan ItemEvent, error) {
	sub := b.client.Subscribe(ctx, channelFor(meetingID))

	// Force the subscription to be established before returning
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to meeting channel: %w", err)
	}

	out := make(chan ItemEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var event ItemEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					if b.logger != nil {
						b.logger.Warn("⚠️ Dropping malformed item event", zap.Error(err))
					}
					continue
				}

				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
