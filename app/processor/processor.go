// Package processor turns individual feed entries into contract events and
// archives the raw payload of accepted ones.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skillsfunding/contracts-feed-processor/app/archive"
	"github.com/skillsfunding/contracts-feed-processor/app/contracts"
	"github.com/skillsfunding/contracts-feed-processor/app/deserializer"
	"github.com/skillsfunding/contracts-feed-processor/app/feed"
)

// ErrEmptyContent reports an entry with no content payload to deserialize.
var ErrEmptyContent = errors.New("feed entry has no content")

type EntryProcessor struct {
	deserializer deserializer.Deserializer
	uploader     archive.Uploader
}

func NewEntryProcessor(d deserializer.Deserializer, uploader archive.Uploader) *EntryProcessor {
	return &EntryProcessor{
		deserializer: d,
		uploader:     uploader,
	}
}

// ProcessEntry deserializes one feed entry into contract process results.
// Every result carries the entry's bookmark id. For each accepted record the
// raw entry payload is archived first and its blob name recorded on the
// event; when archiving fails the whole entry fails, so that a resumed run
// sees it again.
func (p *EntryProcessor) ProcessEntry(ctx context.Context, entry feed.Entry) ([]contracts.ProcessResult, error) {
	if strings.TrimSpace(entry.Content) == "" {
		return nil, fmt.Errorf("entry %s: %w", entry.ID, ErrEmptyContent)
	}

	results, err := p.deserializer.Deserialize(ctx, entry.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize entry %s: %w", entry.ID, err)
	}

	for i := range results {
		results[i].Event.BookmarkID = entry.ID

		if results[i].Result != contracts.ResultSuccessful {
			continue
		}

		blobName := archive.BlobName(entry.Updated, results[i].Event.ContractNumber, results[i].Event.ContractVersion, entry.ID)
		if err := p.uploader.Upload(ctx, blobName, []byte(entry.Content), true); err != nil {
			return nil, fmt.Errorf("failed to archive payload for entry %s: %w", entry.ID, err)
		}
		results[i].Event.ContractEventXml = blobName
	}

	slog.Debug("Processed feed entry", "bookmark", entry.ID, "records", len(results))

	return results, nil
}
