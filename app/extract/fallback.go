package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

// Fallback runs a generic readability extraction for pages whose domain has
// no rule. Optional; enabled via configuration.
type Fallback struct{}

func NewFallback() *Fallback {
	return &Fallback{}
}

func (f *Fallback) Run(pageURL string, html string) (string, error) {
	if html == "" {
		return "", fmt.Errorf("HTML data is empty")
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse page URL: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	return strings.TrimSpace(article.TextContent), nil
}
