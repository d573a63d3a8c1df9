package processor

import (
	"context"

	"github.com/skillsfunding/contracts-feed-processor/app/contracts"
	"github.com/skillsfunding/contracts-feed-processor/app/feed"
)

// Processor turns one feed entry into contract process results, archiving
// the raw payload of every accepted record along the way.
type Processor interface {
	ProcessEntry(ctx context.Context, entry feed.Entry) ([]contracts.ProcessResult, error)
}
