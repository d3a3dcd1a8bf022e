package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vkoselev/feedharvest/app/database"
	"github.com/vkoselev/feedharvest/app/extract"
)

// ExtractTask runs the extraction stage: pages without a progress marker are
// run through the extraction registry and the resulting text is stored
// together with the marker in one transaction. Domains without a rule are
// terminal: an empty fulltext is stored and the marker set, so the item is
// never reselected. Only a storage failure withholds the marker so the item
// is retried on the next run.
type ExtractTask struct {
	Task
	maxItems  int
	extractor *extract.Extractor
	fallback  *extract.Fallback
	pageRepo  database.PageRepository
	textRepo  database.TextRepository
}

func NewExtractTask(maxItems int, extractor *extract.Extractor, fallback *extract.Fallback,
	pageRepo database.PageRepository, textRepo database.TextRepository) *ExtractTask {
	return &ExtractTask{
		Task:      NewTask(TaskTypeExtractText),
		maxItems:  maxItems,
		extractor: extractor,
		fallback:  fallback,
		pageRepo:  pageRepo,
		textRepo:  textRepo,
	}
}

func (t *ExtractTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	pages, err := t.pageRepo.GetPagesForExtraction(t.maxItems)
	if err != nil {
		return fmt.Errorf("failed to get pages for extraction: %w", err)
	}

	if len(pages) == 0 {
		slog.Debug("No pages need extraction")
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, page := range pages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.extractPage(page); err != nil {
			slog.Error("Failed to extract page", "guid", page.GUID, "url", page.DestURL, "error", err)
			errorCount++
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"attempted", len(pages),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractTask) extractPage(page database.PageForExtraction) error {
	text, ok := t.extractor.Run(page.DestURL, page.HTML)

	if !ok && t.fallback != nil {
		fallbackText, err := t.fallback.Run(page.DestURL, page.HTML)
		if err != nil {
			slog.Debug("Readability fallback failed", "url", page.DestURL, "error", err)
		} else {
			text = fallbackText
		}
	}

	record := database.Text{
		URL:         page.DestURL,
		Date:        extract.NormalizeDate(page.PubDate),
		Title:       page.Title,
		Description: page.Description,
		Fulltext:    text,
	}

	if err := t.textRepo.InsertTextWithProgress(record, page.GUID, page.Link, true); err != nil {
		return fmt.Errorf("failed to store extracted text: %w", err)
	}

	if text == "" {
		slog.Debug("Stored empty fulltext", "url", page.DestURL, "rule_applied", ok)
	}

	return nil
}
