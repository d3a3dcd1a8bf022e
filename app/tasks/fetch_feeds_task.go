package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vkoselev/feedharvest/app/database"
	"github.com/vkoselev/feedharvest/app/feed"
)

// FetchFeedsTask runs the feed ingestion stage: every configured feed URL is
// fetched and its items stored insert-if-absent.
type FetchFeedsTask struct {
	Task
	feedURLs []string
	ingestor *feed.Ingestor
	itemRepo database.ItemRepository
}

func NewFetchFeedsTask(feedURLs []string, ingestor *feed.Ingestor, itemRepo database.ItemRepository) *FetchFeedsTask {
	return &FetchFeedsTask{
		Task:     NewTask(TaskTypeFetchFeeds),
		feedURLs: feedURLs,
		ingestor: ingestor,
		itemRepo: itemRepo,
	}
}

func (t *FetchFeedsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	before, err := t.itemRepo.CountItems()
	if err != nil {
		return fmt.Errorf("failed to count items before ingestion: %w", err)
	}

	inserted := t.ingestor.Run(ctx, t.feedURLs)

	after, err := t.itemRepo.CountItems()
	if err != nil {
		return fmt.Errorf("failed to count items after ingestion: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"feeds", len(t.feedURLs),
		"new", inserted,
		"total_before", before,
		"total_after", after)

	return nil
}
