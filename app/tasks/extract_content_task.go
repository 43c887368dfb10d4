package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/travelwire/travelwire/app/database"
	"github.com/travelwire/travelwire/app/extract"
	"github.com/travelwire/travelwire/app/fetch"
	"github.com/travelwire/travelwire/app/news"
)

// ExtractContentTask fetches pending article pages for one source and runs
// the content extractor over them. A delay between fetches keeps the load on
// the source site polite.
type ExtractContentTask struct {
	Task
	SourceConfig *news.Config
	fetcher      fetch.PageFetcher
	extractor    *extract.ContentExtractor
	articleRepo  *database.ArticleRepository
	fetchDelay   time.Duration
}

func NewExtractContentTask(sourceName string, sourceConfig *news.Config, fetcher fetch.PageFetcher,
	extractor *extract.ContentExtractor, articleRepo *database.ArticleRepository,
	fetchDelay time.Duration) *ExtractContentTask {
	return &ExtractContentTask{
		Task:         NewTask(TaskTypeExtractContent, sourceName),
		SourceConfig: sourceConfig,
		fetcher:      fetcher,
		extractor:    extractor,
		articleRepo:  articleRepo,
		fetchDelay:   fetchDelay,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.ExtractContent {
		slog.Debug("Content extraction disabled for source", "source", t.SourceName)
		return nil
	}

	articles, err := t.articleRepo.GetArticlesForExtraction(t.SourceName, t.SourceConfig.Settings.MaxItems)
	if err != nil {
		return fmt.Errorf("failed to get articles for content extraction: %w", err)
	}

	if len(articles) == 0 {
		slog.Debug("No articles need content extraction", "source", t.SourceName)
		return nil
	}

	successCount := 0
	lowConfidenceCount := 0
	errorCount := 0

	for i, article := range articles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if i > 0 && t.fetchDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(t.fetchDelay):
			}
		}

		result, err := t.extractArticle(ctx, article)
		if err != nil {
			slog.Error("Failed to extract content for article", "article_id", article.ID, "url", article.Link, "error", err)
			errorCount++

			if err := t.articleRepo.MarkExtractionFailed(article.ID, err.Error()); err != nil {
				slog.Error("Failed to update content extraction status", "article_id", article.ID, "error", err)
			}
			continue
		}

		if result.Success {
			successCount++
		} else {
			lowConfidenceCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", successCount,
		"low_confidence", lowConfidenceCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractContentTask) extractArticle(ctx context.Context, article database.ArticleForExtraction) (*extract.Result, error) {
	if article.Link == "" {
		return nil, fmt.Errorf("article has no link")
	}

	timeout := time.Duration(t.SourceConfig.Settings.Timeout) * time.Second
	data, err := t.fetcher.Run(ctx, article.Link, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article page: %w", err)
	}

	result, err := t.extractor.Run(data, article.Link)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	err = t.articleRepo.SaveExtractedContent(article.ID, result.Content, result.Excerpt,
		result.WordCount, result.QualityScore, result.Success)
	if err != nil {
		return nil, fmt.Errorf("failed to save extracted content: %w", err)
	}

	slog.Debug("Content extracted", "article_id", article.ID, "url", article.Link,
		"content_length", len(result.Content), "quality_score", result.QualityScore, "success", result.Success)
	return result, nil
}
