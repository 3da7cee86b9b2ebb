package ports

import "context"

// EventPublisher emits domain events to the platform event stream. The
// partition key keeps events for one account on one partition.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
