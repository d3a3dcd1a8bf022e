package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vkoselev/feedharvest/app/database"
	"github.com/vkoselev/feedharvest/app/resolve"
)

// DownloadTask runs the download stage: for items without a stored page it
// resolves the destination URL and downloads the page. A failure leaves the
// item unresolved so it is selected again on the next run.
type DownloadTask struct {
	Task
	maxItems   int
	httpClient *http.Client
	resolver   *resolve.Resolver
	itemRepo   database.ItemRepository
	pageRepo   database.PageRepository
	userAgent  string
	timeout    time.Duration
}

func NewDownloadTask(maxItems int, httpClient *http.Client, resolver *resolve.Resolver,
	itemRepo database.ItemRepository, pageRepo database.PageRepository,
	userAgent string, timeout time.Duration) *DownloadTask {
	return &DownloadTask{
		Task:       NewTask(TaskTypeDownloadHTML),
		maxItems:   maxItems,
		httpClient: httpClient,
		resolver:   resolver,
		itemRepo:   itemRepo,
		pageRepo:   pageRepo,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (t *DownloadTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.itemRepo.GetItemsWithoutPage(t.maxItems)
	if err != nil {
		return fmt.Errorf("failed to get items for download: %w", err)
	}

	if len(items) == 0 {
		slog.Debug("No items need downloading")
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.downloadItem(ctx, item); err != nil {
			slog.Error("Failed to download item", "guid", item.GUID, "link", item.Link, "error", err)
			errorCount++
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"attempted", len(items),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *DownloadTask) downloadItem(ctx context.Context, item database.Item) error {
	if item.Link == "" {
		return fmt.Errorf("item has no link")
	}

	destURL, err := t.resolver.Resolve(ctx, item.Link)
	if err != nil {
		return fmt.Errorf("failed to resolve link: %w", err)
	}

	html, err := t.fetchPage(ctx, destURL)
	if err != nil {
		return fmt.Errorf("failed to fetch destination page: %w", err)
	}

	if err := t.pageRepo.InsertPage(item.GUID, item.Link, destURL, string(html)); err != nil {
		return fmt.Errorf("failed to store page: %w", err)
	}

	slog.Debug("Page downloaded", "guid", item.GUID, "dest_url", destURL, "size", len(html))
	return nil
}

func (t *DownloadTask) fetchPage(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
