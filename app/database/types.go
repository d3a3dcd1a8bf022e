package database

import (
	"time"
)

// Item is one RSS feed entry. The compound key (guid, link) identifies it;
// pubdate keeps the feed's native date string untouched.
type Item struct {
	GUID        string
	Link        string
	PubDate     string
	Title       string
	Description string
	CreatedAt   time.Time
}

// Page is the downloaded destination page for one item. DestURL is the
// resolved canonical URL and may differ from the item's feed link.
type Page struct {
	GUID      string
	Link      string
	DestURL   string
	HTML      string
	CreatedAt time.Time
}

// PageForExtraction joins an item's metadata with its downloaded page,
// everything the extraction stage needs for one unit of work.
type PageForExtraction struct {
	GUID        string
	Link        string
	PubDate     string
	Title       string
	Description string
	DestURL     string
	HTML        string
}

// Text is the externally-facing artifact of the pipeline, keyed by the
// canonical URL. Fulltext is empty when the domain is unsupported or the
// rule extracted nothing.
type Text struct {
	URL         string
	Date        string
	Title       string
	Description string
	Fulltext    string
	CreatedAt   time.Time
}
