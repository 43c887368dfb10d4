package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/travelwire/travelwire/app/cache"
	"github.com/travelwire/travelwire/app/database"
	"github.com/travelwire/travelwire/app/fetch"
	"github.com/travelwire/travelwire/app/news"
)

// ScrapeSourceTask fetches one source's listing, parses it into entries,
// drops cross-source duplicates, applies filters, ranks by freshness and
// stores the result.
type ScrapeSourceTask struct {
	Task
	SourceConfig  *news.Config
	fetcher       fetch.PageFetcher
	pageParser    *news.PageParser
	feedParser    *news.FeedParser
	filterer      *news.Filterer
	ranker        *news.Ranker
	sourceRepo    *database.SourceRepository
	articleRepo   *database.ArticleRepository
	responseCache *cache.Cache
}

func NewScrapeSourceTask(sourceName string, sourceConfig *news.Config, fetcher fetch.PageFetcher,
	pageParser *news.PageParser, feedParser *news.FeedParser, filterer *news.Filterer,
	ranker *news.Ranker, sourceRepo *database.SourceRepository,
	articleRepo *database.ArticleRepository, responseCache *cache.Cache) *ScrapeSourceTask {
	return &ScrapeSourceTask{
		Task:          NewTask(TaskTypeScrapeSource, sourceName),
		SourceConfig:  sourceConfig,
		fetcher:       fetcher,
		pageParser:    pageParser,
		feedParser:    feedParser,
		filterer:      filterer,
		ranker:        ranker,
		sourceRepo:    sourceRepo,
		articleRepo:   articleRepo,
		responseCache: responseCache,
	}
}

func (t *ScrapeSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	timeout := time.Duration(t.SourceConfig.Settings.Timeout) * time.Second
	data, err := t.fetcher.Run(ctx, t.SourceConfig.URL, timeout)
	if err != nil {
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	entries, err := t.parseEntries(data)
	if err != nil {
		return fmt.Errorf("failed to parse source: %w", err)
	}

	duplicateCount := 0
	filteredCount := 0
	newCount := 0

	if len(entries) > 0 {
		var uniqueEntries []news.Entry
		for _, entry := range entries {
			isDuplicate, err := t.articleRepo.CheckDuplicate(entry.ContentHash, t.SourceName)
			if err != nil {
				return fmt.Errorf("failed to check for duplicates: %w", err)
			}

			if isDuplicate {
				duplicateCount++
			} else {
				uniqueEntries = append(uniqueEntries, entry)
			}
		}

		if len(uniqueEntries) > 0 {
			filteredEntries := t.filterer.Run(uniqueEntries, t.SourceConfig)
			rankedEntries := t.ranker.Run(filteredEntries)

			for _, entry := range rankedEntries {
				if entry.IsFiltered {
					filteredCount++
				} else {
					newCount++
				}
			}

			if err := t.storeEntries(rankedEntries); err != nil {
				return fmt.Errorf("failed to store entries: %w", err)
			}
		}
	}

	if err := t.updateFetchSchedule(); err != nil {
		return fmt.Errorf("failed to update fetch schedule: %w", err)
	}

	t.responseCache.Invalidate(ctx)

	slog.Info("Task completed",
		"type", "ScrapeSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(entries),
		"duplicates", duplicateCount,
		"filtered", filteredCount,
		"new", newCount)

	return nil
}

func (t *ScrapeSourceTask) parseEntries(data []byte) ([]news.Entry, error) {
	if t.SourceConfig.Kind == news.SourceKindFeed {
		return t.feedParser.Run(data, t.SourceConfig)
	}
	return t.pageParser.Run(data, t.SourceConfig)
}

func (t *ScrapeSourceTask) storeEntries(entries []news.Entry) error {
	for _, entry := range entries {
		if err := t.articleRepo.UpsertArticle(t.SourceName, entry); err != nil {
			return fmt.Errorf("failed to upsert article: %w", err)
		}
	}
	return nil
}

func (t *ScrapeSourceTask) updateFetchSchedule() error {
	now := time.Now().UTC()
	nextFetch := now.Add(time.Duration(t.SourceConfig.Settings.RefreshInterval) * time.Second)
	return t.sourceRepo.UpdateFetchTimes(t.SourceName, now, nextFetch)
}
