package api

import (
	"time"

	"github.com/travelwire/travelwire/app/cache"
	"github.com/travelwire/travelwire/app/database"
	"github.com/travelwire/travelwire/app/news"
	"github.com/travelwire/travelwire/app/tasks"
)

type Handler struct {
	sourceRepo    *database.SourceRepository
	articleRepo   *database.ArticleRepository
	configCache   *news.ConfigCache
	filterer      *news.Filterer
	scheduler     tasks.TaskSchedulerInterface
	responseCache *cache.Cache
}

// CreateSourceRequest is the payload for registering a source through the API.
type CreateSourceRequest struct {
	Name      string `json:"name" binding:"required"`
	URL       string `json:"url" binding:"required"`
	Kind      string `json:"kind"`
	Selectors struct {
		Entry   string `json:"entry"`
		Title   string `json:"title"`
		Link    string `json:"link"`
		Summary string `json:"summary"`
		Time    string `json:"time"`
	} `json:"selectors"`
	Settings struct {
		TopicalFilter   bool `json:"topical_filter"`
		RefreshInterval int  `json:"refresh_interval"`
		MaxItems        int  `json:"max_items"`
		Timeout         int  `json:"timeout"`
		ExtractContent  bool `json:"extract_content"`
		Render          bool `json:"render"`
	} `json:"settings"`
	Filters []struct {
		Field    string   `json:"field"`
		Includes []string `json:"includes"`
		Excludes []string `json:"excludes"`
	} `json:"filters"`
}

// ArticleResponse is the JSON shape of one article in listing and detail
// endpoints.
type ArticleResponse struct {
	ID           int64      `json:"id"`
	Source       string     `json:"source"`
	Title        string     `json:"title"`
	Link         string     `json:"link"`
	Summary      string     `json:"summary,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	Freshness    float64    `json:"freshness"`
	Excerpt      string     `json:"excerpt,omitempty"`
	Content      string     `json:"content,omitempty"`
	WordCount    int        `json:"word_count,omitempty"`
	QualityScore int        `json:"quality_score,omitempty"`
	Extraction   string     `json:"extraction_status"`
}

func toArticleResponse(article database.Article, includeContent bool) ArticleResponse {
	resp := ArticleResponse{
		ID:           article.ID,
		Source:       article.SourceName,
		Title:        article.Title,
		Link:         article.Link,
		Summary:      article.Summary,
		PublishedAt:  article.PublishedAt,
		Freshness:    article.Freshness,
		Excerpt:      article.Excerpt,
		WordCount:    article.WordCount,
		QualityScore: article.QualityScore,
		Extraction:   article.ExtractionStatus,
	}
	if includeContent {
		resp.Content = article.Content
	}
	return resp
}
