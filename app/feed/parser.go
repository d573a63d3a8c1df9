package feed

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed/atom"
)

const entryIDPrefix = "uuid:"

// Parser turns a raw atom page of the contract events feed into a
// Page. Entry metadata and navigation links come from the atom model;
// the raw <content> of each entry is re-serialized from the document
// itself so that no markup is lost to feed normalization.
type Parser struct {
	atomParser *atom.Parser
}

func NewParser() *Parser {
	return &Parser{
		atomParser: &atom.Parser{},
	}
}

func (p *Parser) Run(data []byte) (*Page, error) {
	atomFeed, err := p.atomParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed page: %w", err)
	}

	contents, err := p.extractContents(data)
	if err != nil {
		return nil, err
	}

	page := &Page{}

	hasCurrent := false
	hasNextArchive := false
	for _, link := range atomFeed.Links {
		if link == nil {
			continue
		}
		switch link.Rel {
		case "prev-archive":
			page.PreviousPageNumber, err = pageNumberFromHref(link.Href)
		case "next-archive":
			hasNextArchive = true
			page.NextPageNumber, err = pageNumberFromHref(link.Href)
		case "current":
			hasCurrent = true
			page.CurrentPageNumber, err = pageNumberFromHref(link.Href)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q link: %w", link.Rel, err)
		}
	}

	page.IsSelfPage = !hasCurrent && !hasNextArchive
	if !hasCurrent {
		page.CurrentPageNumber = page.PreviousPageNumber + 1
	}

	page.Entries = make([]Entry, 0, len(atomFeed.Entries))
	for _, item := range atomFeed.Entries {
		if item == nil {
			continue
		}
		entry, err := p.normalizeEntry(item, contents)
		if err != nil {
			return nil, err
		}
		page.Entries = append(page.Entries, entry)
	}

	return page, nil
}

func (p *Parser) normalizeEntry(item *atom.Entry, contents map[string]string) (Entry, error) {
	id, err := uuid.Parse(strings.TrimPrefix(item.ID, entryIDPrefix))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to parse entry id %q: %w", item.ID, err)
	}

	entry := Entry{
		ID:      id,
		Content: contents[item.ID],
	}

	if item.UpdatedParsed != nil {
		entry.Updated = item.UpdatedParsed.UTC()
	}

	return entry, nil
}

// extractContents maps each entry's raw id string to the serialized
// <content> element of that entry.
func (p *Parser) extractContents(data []byte) (map[string]string, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed page: %w", err)
	}

	contents := make(map[string]string)
	for _, node := range xmlquery.Find(doc, "//entry") {
		idNode := xmlquery.FindOne(node, "id")
		contentNode := xmlquery.FindOne(node, "content")
		if idNode == nil || contentNode == nil {
			continue
		}
		contents[strings.TrimSpace(idNode.InnerText())] = contentNode.OutputXML(true)
	}

	return contents, nil
}

// pageNumberFromHref extracts the page number from the trailing path
// segment of a navigation link.
func pageNumberFromHref(href string) (int, error) {
	trimmed := strings.TrimRight(href, "/")
	idx := strings.LastIndex(trimmed, "/")
	segment := trimmed[idx+1:]

	number, err := strconv.Atoi(segment)
	if err != nil {
		return 0, fmt.Errorf("no page number in %q: %w", href, err)
	}
	return number, nil
}
