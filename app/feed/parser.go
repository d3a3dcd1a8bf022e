package feed

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
	tags         Tags
}

func NewParser() *Parser {
	return NewParserWithTags(DefaultTags)
}

func NewParserWithTags(tags Tags) *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		tags:         tags,
	}
}

// Run parses a feed document into items. A document without a recognizable
// feed root is an error; the caller decides whether that aborts anything.
func (p *Parser) Run(data []byte) ([]Item, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		items = append(items, Item{
			GUID:        p.fieldValue(item, p.tags.GUID),
			Link:        p.fieldValue(item, p.tags.Link),
			PubDate:     p.fieldValue(item, p.tags.PubDate),
			Title:       p.fieldValue(item, p.tags.Title),
			Description: p.fieldValue(item, p.tags.Description),
		})
	}

	return items, nil
}

// fieldValue maps a configured tag name onto the parsed item. The five
// standard RSS names hit gofeed's normalized fields; anything else is read
// from the item's custom elements. Missing tags yield empty strings.
func (p *Parser) fieldValue(item *gofeed.Item, tag string) string {
	switch tag {
	case "link":
		return item.Link
	case "guid":
		return item.GUID
	case "pubDate":
		return item.Published
	case "title":
		return item.Title
	case "description":
		return item.Description
	default:
		return item.Custom[tag]
	}
}
