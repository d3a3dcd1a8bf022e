package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/vkoselev/feedharvest/app/database"
	"github.com/vkoselev/feedharvest/app/extract"
	"github.com/vkoselev/feedharvest/app/feed"
	"github.com/vkoselev/feedharvest/app/resolve"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler enqueues the three pipeline stages on an interval and runs them
// on a bounded worker pool. Every stage is idempotent, so a stage task that
// overlaps a previous slow run of the same stage is harmless.
type Scheduler struct {
	feedURLs    []string
	ingestor    *feed.Ingestor
	resolver    *resolve.Resolver
	extractor   *extract.Extractor
	fallback    *extract.Fallback
	httpClient  *http.Client
	itemRepo    database.ItemRepository
	pageRepo    database.PageRepository
	textRepo    database.TextRepository
	userAgent   string
	maxItems    int
	timeout     time.Duration
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(feedURLs []string, ingestor *feed.Ingestor, resolver *resolve.Resolver,
	extractor *extract.Extractor, fallback *extract.Fallback, httpClient *http.Client,
	itemRepo database.ItemRepository, pageRepo database.PageRepository,
	textRepo database.TextRepository, userAgent string, maxItems int,
	timeout, interval time.Duration, workerCount int) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		feedURLs:    feedURLs,
		ingestor:    ingestor,
		resolver:    resolver,
		extractor:   extractor,
		fallback:    fallback,
		httpClient:  httpClient,
		itemRepo:    itemRepo,
		pageRepo:    pageRepo,
		textRepo:    textRepo,
		userAgent:   userAgent,
		maxItems:    maxItems,
		timeout:     timeout,
		interval:    interval,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStageTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueStageTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueStageTasks schedules one pass of each pipeline stage. The stages
// select disjoint work via the persisted relations, so they may run in any
// order or concurrently; whatever one pass leaves unfinished is picked up
// by the next.
func (s *Scheduler) enqueueStageTasks() {
	stageTasks := []TaskInterface{
		NewFetchFeedsTask(s.feedURLs, s.ingestor, s.itemRepo),
		NewDownloadTask(s.maxItems, s.httpClient, s.resolver, s.itemRepo, s.pageRepo, s.userAgent, s.timeout),
		NewExtractTask(s.maxItems, s.extractor, s.fallback, s.pageRepo, s.textRepo),
	}

	for _, task := range stageTasks {
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue stage task", "type", task.GetType(), "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	go func() {
		time.Sleep(retryDelay)
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		default:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}
