package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillsfunding/contracts-feed-processor/app/feed"
)

// SettingsStore is the durable run state the engine reads and advances.
type SettingsStore interface {
	GetLastReadBookmarkID(ctx context.Context) (uuid.UUID, error)
	SetLastReadBookmarkID(ctx context.Context, id uuid.UUID) error
	GetLastReadPage(ctx context.Context) (int, error)
	SetLastReadPage(ctx context.Context, page int) error
	GetNumberOfPagesToProcess(ctx context.Context) (int, error)
}

// Populator forwards a batch of feed entries downstream, advancing the
// bookmark after each entry.
type Populator interface {
	Populate(ctx context.Context, entries []feed.Entry) error
}
