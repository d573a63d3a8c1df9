package feed

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a single atom entry of the contract events feed. ID is the
// entry id with its "uuid:" prefix stripped, Updated is normalized to
// UTC and Content carries the serialized <content> element of the
// entry, ready for schema validation and deserialization.
type Entry struct {
	ID      uuid.UUID
	Updated time.Time
	Content string
}

// Page is one parsed page of the paginated feed. A page number of 0
// means the corresponding navigation link was absent.
type Page struct {
	Entries []Entry

	// IsSelfPage reports whether this is the newest (non-archive)
	// page of the feed, i.e. it carries neither a "current" nor a
	// "next-archive" link.
	IsSelfPage bool

	CurrentPageNumber  int
	PreviousPageNumber int
	NextPageNumber     int
}

// FindEntry returns the index of the entry with the given id, or -1
// when the page does not contain it.
func (p *Page) FindEntry(id uuid.UUID) int {
	for i, entry := range p.Entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}
