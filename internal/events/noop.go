package events

import "context"

// NoopPublisher discards events. The server falls back to it when no NATS
// URL is configured; board mutations still work, watchers just poll.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
