package pubsub

import "context"

// NoopPublisher discards every event. Useful as a default when no pub/sub
// backend is configured, and in tests that don't care about event delivery.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, channel string, payload interface{}) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
