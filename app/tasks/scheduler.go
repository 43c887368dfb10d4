package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/travelwire/travelwire/app/cache"
	"github.com/travelwire/travelwire/app/cfg"
	"github.com/travelwire/travelwire/app/database"
	"github.com/travelwire/travelwire/app/extract"
	"github.com/travelwire/travelwire/app/fetch"
	"github.com/travelwire/travelwire/app/news"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	sourceRepo    *database.SourceRepository
	articleRepo   *database.ArticleRepository
	configCache   *news.ConfigCache
	fetcher       fetch.PageFetcher
	renderer      *fetch.Renderer
	pageParser    *news.PageParser
	feedParser    *news.FeedParser
	filterer      *news.Filterer
	ranker        *news.Ranker
	extractor     *extract.ContentExtractor
	responseCache *cache.Cache
	interval      time.Duration
	fetchDelay    time.Duration
	workerCount   int
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface
}

func NewScheduler(configCache *news.ConfigCache, sourceRepo *database.SourceRepository,
	articleRepo *database.ArticleRepository, fetcher fetch.PageFetcher, renderer *fetch.Renderer,
	pageParser *news.PageParser, feedParser *news.FeedParser, filterer *news.Filterer,
	ranker *news.Ranker, extractor *extract.ContentExtractor,
	responseCache *cache.Cache) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceRepo:    sourceRepo,
		articleRepo:   articleRepo,
		configCache:   configCache,
		fetcher:       fetcher,
		renderer:      renderer,
		pageParser:    pageParser,
		feedParser:    feedParser,
		filterer:      filterer,
		ranker:        ranker,
		extractor:     extractor,
		responseCache: responseCache,
		interval:      time.Duration(cfg.SchedulerInterval) * time.Second,
		fetchDelay:    time.Duration(cfg.FetchDelay) * time.Second,
		workerCount:   cfg.WorkerCount,
		ctx:           ctx,
		cancel:        cancel,
		taskQueue:     make(chan TaskInterface, 300),
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

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
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

func (s *Scheduler) enqueueStartupTasks() {
	sourceConfigs := s.configCache.GetConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No source configurations found")
		return
	}

	slog.Debug("Processing source configurations", "count", len(sourceConfigs))

	for _, sourceConfig := range sourceConfigs {
		syncTask := NewSyncSourceConfigTask(sourceConfig.Name, sourceConfig, s.sourceRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncSourceConfigTask", "source", sourceConfig.Name, "error", err)
			continue
		}

		if !sourceConfig.Settings.Enabled {
			slog.Debug("Source disabled, skipping ScrapeSourceTask", "source", sourceConfig.Name)
			continue
		}

		scrapeTask := NewScrapeSourceTask(sourceConfig.Name, sourceConfig, s.scrapeFetcher(sourceConfig),
			s.pageParser, s.feedParser, s.filterer, s.ranker, s.sourceRepo, s.articleRepo, s.responseCache)
		if err := s.EnqueueTask(scrapeTask); err != nil {
			slog.Warn("Failed to enqueue ScrapeSourceTask", "source", sourceConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	sourceConfigs := s.configCache.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	slog.Debug("Processing enabled source configurations for task scheduling", "count", len(sourceConfigs))

	for _, sourceConfig := range sourceConfigs {
		source, err := s.sourceRepo.GetSource(sourceConfig.Name)
		if err != nil {
			slog.Warn("Failed to get source from database, skipping", "source", sourceConfig.Name, "error", err)
			continue
		}
		if source == nil {
			slog.Warn("Source not found in database, skipping", "source", sourceConfig.Name)
			continue
		}

		now := time.Now().UTC()
		if source.NextFetchAt != nil && source.NextFetchAt.After(now) {
			slog.Debug("Source not due for refresh yet", "source", sourceConfig.Name, "next_fetch_at", source.NextFetchAt)
		} else {
			scrapeTask := NewScrapeSourceTask(sourceConfig.Name, sourceConfig, s.scrapeFetcher(sourceConfig),
				s.pageParser, s.feedParser, s.filterer, s.ranker, s.sourceRepo, s.articleRepo, s.responseCache)
			if err := s.EnqueueTask(scrapeTask); err != nil {
				slog.Warn("Failed to enqueue ScrapeSourceTask", "source", sourceConfig.Name, "error", err)
			}
		}

		if sourceConfig.Settings.ExtractContent {
			extractTask := NewExtractContentTask(sourceConfig.Name, sourceConfig, s.fetcher,
				s.extractor, s.articleRepo, s.fetchDelay)
			if err := s.EnqueueTask(extractTask); err != nil {
				slog.Warn("Failed to enqueue ExtractContentTask", "source", sourceConfig.Name, "error", err)
			}
		}
	}
}

// scrapeFetcher picks the browser renderer for sources that need script
// execution, the plain HTTP client otherwise.
func (s *Scheduler) scrapeFetcher(sourceConfig *news.Config) fetch.PageFetcher {
	if sourceConfig.Settings.Render && s.renderer != nil {
		return s.renderer
	}
	return s.fetcher
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

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			// The waiting goroutine joins the WaitGroup so Stop cannot
			// close the queue underneath it mid-retry.
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()

				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				case <-time.After(retryDelay):
				}

				if retryErr := s.EnqueueTask(task); retryErr != nil {
					slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
