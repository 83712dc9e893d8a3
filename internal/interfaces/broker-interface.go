package interfaces

import "context"

// ConsumerHandler receives one kafka message at a time. The key selects the
// event type, the value is its JSON payload.
type ConsumerHandler interface {
	HandleMessage(ctx context.Context, key string, value []byte) error
}

type ProducerHandler interface {
	PublishMessage(ctx context.Context, key, value []byte) error
}
