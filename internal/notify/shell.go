package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultShellChannel is where the native shell bridge listens.
const DefaultShellChannel = "skillswap:notifications"

// NativeShellNotifier hands notifications to a native mobile/desktop shell that
// subscribes to a Redis channel and shows them with platform APIs.
type NativeShellNotifier struct {
	client  *redis.Client
	channel string
}

func NewNativeShellNotifier(client *redis.Client, channel string) *NativeShellNotifier {
	if channel == "" {
		channel = DefaultShellChannel
	}
	return &NativeShellNotifier{client: client, channel: channel}
}

func (s *NativeShellNotifier) Name() string { return "native-shell" }

// RequestPermission is granted when a shell is subscribed to the channel.
func (s *NativeShellNotifier) RequestPermission(ctx context.Context) bool {
	subs, err := s.client.PubSubNumSub(ctx, s.channel).Result()
	if err != nil {
		return false
	}
	return subs[s.channel] > 0
}

func (s *NativeShellNotifier) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	receivers, err := s.client.Publish(ctx, s.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	if receivers == 0 {
		return ErrUndelivered
	}
	return nil
}
