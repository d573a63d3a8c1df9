package feed

import "context"

// Reader fetches and parses pages of the contract events feed.
type Reader interface {
	// ReadSelfPage returns the newest page of the feed.
	ReadSelfPage(ctx context.Context) (*Page, error)
	// ReadPage returns the archive page with the given number.
	ReadPage(ctx context.Context, pageNumber int) (*Page, error)
	// ParsePage parses a raw atom page, as delivered by a push
	// subscription, without touching the network.
	ParsePage(data []byte) (*Page, error)
}
