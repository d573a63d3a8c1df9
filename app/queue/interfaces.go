package queue

import "context"

// Publisher forwards accepted contract events to the downstream queue.
// Messages sharing a key keep their relative order; msgID deduplicates
// redeliveries of the same logical message.
type Publisher interface {
	Publish(ctx context.Context, key string, msgID string, payload []byte) error
}
