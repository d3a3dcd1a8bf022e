package feed

// Item is one entry parsed from an RSS feed. PubDate carries the feed's
// native date string without normalization; missing tags leave empty strings.
type Item struct {
	GUID        string
	Link        string
	PubDate     string
	Title       string
	Description string
}

// Tags names the feed elements read into an Item. Non-standard names are
// looked up among the item's custom child elements.
type Tags struct {
	Link        string
	GUID        string
	PubDate     string
	Title       string
	Description string
}

// DefaultTags are the RSS 2.0 element names.
var DefaultTags = Tags{
	Link:        "link",
	GUID:        "guid",
	PubDate:     "pubDate",
	Title:       "title",
	Description: "description",
}
