package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/skillsfunding/contracts-feed-processor/app/contracts"
	"github.com/skillsfunding/contracts-feed-processor/app/feed"
	"github.com/skillsfunding/contracts-feed-processor/app/metrics"
	"github.com/skillsfunding/contracts-feed-processor/app/processor"
	"github.com/skillsfunding/contracts-feed-processor/app/queue"
)

// QueuePopulator runs each feed entry through the entry processor and
// publishes the accepted contract events, keyed by contract number so
// that events of one contract stay ordered. The durable bookmark is
// advanced after every entry, not at the end of the batch, so an
// interrupted run resumes at the first unprocessed entry.
type QueuePopulator struct {
	processor processor.Processor
	publisher queue.Publisher
	settings  SettingsStore
}

func NewQueuePopulator(p processor.Processor, publisher queue.Publisher, settings SettingsStore) *QueuePopulator {
	return &QueuePopulator{
		processor: p,
		publisher: publisher,
		settings:  settings,
	}
}

func (q *QueuePopulator) Populate(ctx context.Context, entries []feed.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	successCount := 0
	ignoredCount := 0

	for _, entry := range entries {
		results, err := q.processor.ProcessEntry(ctx, entry)
		if err != nil {
			return err
		}
		metrics.EntriesProcessedTotal.Inc()

		for _, result := range results {
			metrics.EventsTotal.WithLabelValues(string(result.Result)).Inc()

			if result.Result != contracts.ResultSuccessful {
				ignoredCount++
				continue
			}

			if err := q.publish(ctx, result.Event); err != nil {
				return err
			}
			successCount++
		}

		if err := q.settings.SetLastReadBookmarkID(ctx, entry.ID); err != nil {
			return fmt.Errorf("failed to advance bookmark to %s: %w", entry.ID, err)
		}
	}

	slog.Info("Completed processing batch of feed entries",
		"entries", len(entries),
		"queued", successCount,
		"ignored", ignoredCount)

	return nil
}

func (q *QueuePopulator) publish(ctx context.Context, event contracts.ContractEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode contract event %s: %w", event.ContractNumber, err)
	}

	msgID := fmt.Sprintf("%s-%s-%d", event.BookmarkID, event.ContractNumber, event.ContractVersion)
	if err := q.publisher.Publish(ctx, event.ContractNumber, msgID, payload); err != nil {
		return fmt.Errorf("failed to queue contract event %s: %w", event.ContractNumber, err)
	}

	metrics.EventsEnqueuedTotal.Inc()
	return nil
}
