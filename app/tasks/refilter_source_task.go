package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/travelwire/travelwire/app/cache"
	"github.com/travelwire/travelwire/app/database"
	"github.com/travelwire/travelwire/app/news"
)

// RefilterSourceTask re-applies the current filter rules to a source's stored
// articles after its configuration changed.
type RefilterSourceTask struct {
	Task
	SourceConfig  *news.Config
	filterer      *news.Filterer
	articleRepo   *database.ArticleRepository
	responseCache *cache.Cache
}

func NewRefilterSourceTask(sourceName string, sourceConfig *news.Config, filterer *news.Filterer,
	articleRepo *database.ArticleRepository, responseCache *cache.Cache) *RefilterSourceTask {
	return &RefilterSourceTask{
		Task:          NewTask(TaskTypeRefilterSource, sourceName),
		SourceConfig:  sourceConfig,
		filterer:      filterer,
		articleRepo:   articleRepo,
		responseCache: responseCache,
	}
}

func (t *RefilterSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	articles, err := t.articleRepo.GetSourceArticles(t.SourceName)
	if err != nil {
		return fmt.Errorf("failed to get source articles: %w", err)
	}

	entries := make([]news.Entry, len(articles))
	for i, article := range articles {
		entries[i] = news.Entry{
			Title:        article.Title,
			Link:         article.Link,
			Source:       article.SourceName,
			Summary:      article.Summary,
			ContentHash:  article.ContentHash,
			IsFiltered:   article.IsFiltered,
			FilterReason: article.FilterReason,
		}
	}

	filteredEntries := t.filterer.Run(entries, t.SourceConfig)

	updatedCount := 0
	errorCount := 0

	for i, filteredEntry := range filteredEntries {
		originalArticle := articles[i]

		if originalArticle.IsFiltered != filteredEntry.IsFiltered || originalArticle.FilterReason != filteredEntry.FilterReason {
			err := t.articleRepo.UpdateFilterStatus(originalArticle.ID, filteredEntry.IsFiltered, filteredEntry.FilterReason)
			if err != nil {
				slog.Error("Failed to update article filter status", "article_id", originalArticle.ID, "error", err)
				errorCount++
			} else {
				updatedCount++
			}
		}
	}

	if updatedCount > 0 {
		t.responseCache.Invalidate(ctx)
	}

	slog.Info("Task completed",
		"type", "RefilterSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", updatedCount,
		"errors", errorCount)

	return nil
}
