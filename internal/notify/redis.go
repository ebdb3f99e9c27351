package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"
)

// RedisSink publishes reminders as JSON on a redis pub/sub channel so other
// local processes can pick them up.
type RedisSink struct {
	client  rueidis.Client
	channel string
}

func NewRedisSink(client rueidis.Client, channel string) *RedisSink {
	return &RedisSink{
		client:  client,
		channel: channel,
	}
}

func (r *RedisSink) Deliver(ctx context.Context, reminder Reminder) error {
	payload, err := json.Marshal(reminder)
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}

	cmd := r.client.B().Publish().Channel(r.channel).Message(string(payload)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("publish reminder: %w", err)
	}
	return nil
}
