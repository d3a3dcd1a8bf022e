package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vkoselev/feedharvest/app/database"
)

// Ingestor turns a list of feed URLs into stored items. Failures are scoped
// to a single feed URL; the remaining URLs are always processed.
type Ingestor struct {
	httpClient *http.Client
	parser     *Parser
	itemRepo   database.ItemRepository
	userAgent  string
	timeout    time.Duration
}

func NewIngestor(httpClient *http.Client, parser *Parser, itemRepo database.ItemRepository, userAgent string, timeout time.Duration) *Ingestor {
	return &Ingestor{
		httpClient: httpClient,
		parser:     parser,
		itemRepo:   itemRepo,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Run ingests every feed URL and returns the number of newly inserted items.
// Items already known under their (guid, link) key are left untouched.
func (ing *Ingestor) Run(ctx context.Context, feedURLs []string) int {
	inserted := 0
	for _, url := range feedURLs {
		select {
		case <-ctx.Done():
			return inserted
		default:
		}

		n, err := ing.ingestFeed(ctx, url)
		if err != nil {
			slog.Error("Failed to ingest feed", "url", url, "error", err)
			continue
		}
		inserted += n
	}
	return inserted
}

func (ing *Ingestor) ingestFeed(ctx context.Context, url string) (int, error) {
	data, err := ing.fetchFeed(ctx, url)
	if err != nil {
		return 0, err
	}

	items, err := ing.parser.Run(data)
	if err != nil {
		// Not a recognizable feed document. Contributes zero items, but is
		// not a fetch failure.
		slog.Warn("Feed document not recognized, skipping", "url", url, "error", err)
		return 0, nil
	}

	inserted := 0
	for _, item := range items {
		ok, err := ing.itemRepo.InsertItem(database.Item{
			GUID:        item.GUID,
			Link:        item.Link,
			PubDate:     item.PubDate,
			Title:       item.Title,
			Description: item.Description,
		})
		if err != nil {
			slog.Error("Failed to store item", "guid", item.GUID, "link", item.Link, "error", err)
			continue
		}
		if ok {
			inserted++
		}
	}

	slog.Debug("Feed ingested", "url", url, "items", len(items), "new", inserted)
	return inserted, nil
}

func (ing *Ingestor) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, ing.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", ing.userAgent)

	resp, err := ing.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
