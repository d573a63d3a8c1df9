// Package engine drives paginated reads of the contract events feed,
// resuming from the durable bookmark and forwarding new entries downstream.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skillsfunding/contracts-feed-processor/app/feed"
	"github.com/skillsfunding/contracts-feed-processor/app/metrics"
)

// ErrBookmarkDesync reports that the durable bookmark could not be found on
// the durable last read page. The stored state no longer matches the feed
// and processing must stop rather than risk skipping entries.
var ErrBookmarkDesync = errors.New("last read bookmark not found on last read page")

type Engine struct {
	reader    feed.Reader
	populator Populator
	settings  SettingsStore
}

func NewEngine(reader feed.Reader, populator Populator, settings SettingsStore) *Engine {
	return &Engine{
		reader:    reader,
		populator: populator,
		settings:  settings,
	}
}

// ExtractAndPopulateQueue reads the feed from the durable bookmark forward.
// When the bookmark still sits on the newest page only the entries after it
// are forwarded; otherwise the engine walks the archive pages, up to the
// configured page budget per run.
func (e *Engine) ExtractAndPopulateQueue(ctx context.Context) error {
	bookmark, err := e.settings.GetLastReadBookmarkID(ctx)
	if err != nil {
		return err
	}
	lastReadPage, err := e.settings.GetLastReadPage(ctx)
	if err != nil {
		return err
	}
	pageBudget, err := e.settings.GetNumberOfPagesToProcess(ctx)
	if err != nil {
		return err
	}

	slog.Info("Starting to process contract events",
		"bookmark", bookmark,
		"last_read_page", lastReadPage,
		"page_budget", pageBudget)

	selfPage, err := e.reader.ReadSelfPage(ctx)
	if err != nil {
		return fmt.Errorf("failed to read newest feed page: %w", err)
	}
	metrics.PagesFetchedTotal.Inc()

	if idx := selfPage.FindEntry(bookmark); bookmark != uuid.Nil && idx >= 0 {
		newEntries := selfPage.Entries[idx+1:]
		slog.Info("Found new contract events on newest page", "count", len(newEntries))

		if len(newEntries) == 0 {
			return nil
		}
		if err := e.populator.Populate(ctx, newEntries); err != nil {
			return err
		}
		return e.settings.SetLastReadPage(ctx, selfPage.CurrentPageNumber)
	}

	return e.readArchives(ctx, bookmark, lastReadPage, pageBudget)
}

// ExtractAndPopulateQueueFromPayload forwards every entry of a pushed feed
// page, bypassing pagination and bookmark resolution.
func (e *Engine) ExtractAndPopulateQueueFromPayload(ctx context.Context, payload []byte) error {
	page, err := e.reader.ParsePage(payload)
	if err != nil {
		return fmt.Errorf("failed to parse pushed feed page: %w", err)
	}
	return e.populator.Populate(ctx, page.Entries)
}

func (e *Engine) readArchives(ctx context.Context, bookmark uuid.UUID, lastReadPage, pageBudget int) error {
	page, err := e.reader.ReadPage(ctx, lastReadPage)
	if err != nil {
		return fmt.Errorf("failed to read page %d: %w", lastReadPage, err)
	}
	metrics.PagesFetchedTotal.Inc()

	newEntries := page.Entries
	if bookmark != uuid.Nil {
		idx := page.FindEntry(bookmark)
		if idx < 0 {
			return fmt.Errorf("bookmark %s on page %d: %w", bookmark, lastReadPage, ErrBookmarkDesync)
		}
		newEntries = page.Entries[idx+1:]
	}

	slog.Info("Found new contract events on last read page", "page", lastReadPage, "count", len(newEntries))

	if len(newEntries) > 0 {
		pageBudget--
		if err := e.populator.Populate(ctx, newEntries); err != nil {
			return err
		}
		if err := e.settings.SetLastReadPage(ctx, page.CurrentPageNumber); err != nil {
			return err
		}
	}

	for pageBudget > 0 && !page.IsSelfPage {
		pageBudget--

		if page.NextPageNumber > 0 {
			page, err = e.reader.ReadPage(ctx, page.NextPageNumber)
		} else {
			page, err = e.reader.ReadSelfPage(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to read next feed page: %w", err)
		}
		metrics.PagesFetchedTotal.Inc()

		// The newest page may have rolled into the archive between
		// reads. If its predecessor is not the page we just finished,
		// back up to the first unread archive page instead.
		if page.IsSelfPage {
			prevPage, err := e.settings.GetLastReadPage(ctx)
			if err != nil {
				return err
			}
			if page.PreviousPageNumber != prevPage {
				page, err = e.reader.ReadPage(ctx, prevPage+1)
				if err != nil {
					return fmt.Errorf("failed to read page %d: %w", prevPage+1, err)
				}
				metrics.PagesFetchedTotal.Inc()
			}
		}

		slog.Info("Found new contract events",
			"page", pageLabel(page),
			"count", len(page.Entries))

		if len(page.Entries) > 0 {
			if err := e.populator.Populate(ctx, page.Entries); err != nil {
				return err
			}
			if err := e.settings.SetLastReadPage(ctx, page.CurrentPageNumber); err != nil {
				return err
			}
		}
	}

	return nil
}

func pageLabel(p *feed.Page) string {
	if p.IsSelfPage {
		return "self"
	}
	return fmt.Sprintf("%d", p.CurrentPageNumber)
}
