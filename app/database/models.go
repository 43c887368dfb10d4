package database

import (
	"time"
)

type Source struct {
	Name          string
	URL           string
	Kind          string
	UserDefined   bool
	Enabled       bool
	Config        string // serialized configuration for user-defined sources

	LastFetchedAt *time.Time
	NextFetchAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Article struct {
	ID            int64
	SourceName    string
	Link          string
	Title         string
	Summary       string
	PublishedAt   *time.Time
	PublishedHint string
	Freshness     float64
	ContentHash   string
	IsFiltered    bool
	FilterReason  string

	Content            string
	Excerpt            string
	WordCount          int
	QualityScore       int
	ExtractionStatus   string // pending, success, low_confidence, failed, skipped
	ExtractionError    string
	ExtractionAttempts int
	ExtractedAt        *time.Time

	CreatedAt time.Time
}

// ArticleForExtraction carries the minimum needed to fetch and extract one
// stored article.
type ArticleForExtraction struct {
	ID   int64
	Link string
}
