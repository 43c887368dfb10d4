package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/travelwire/travelwire/app/news"
)

const maxExtractionAttempts = 3

// ArticleRepository handles database operations for articles
type ArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// UpsertArticle stores an entry for a source. Re-scraped entries with the same
// content hash refresh listing metadata but keep extraction state untouched.
func (r *ArticleRepository) UpsertArticle(sourceName string, entry news.Entry) error {
	var publishedAt *time.Time
	if !entry.PublishedAt.IsZero() {
		publishedAt = &entry.PublishedAt
	}

	_, err := r.db.Exec(`
		INSERT INTO articles (source_name, link, title, summary, published_at,
			published_hint, freshness, content_hash, is_filtered, filter_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_name, content_hash) DO UPDATE SET
			link = excluded.link,
			title = excluded.title,
			summary = excluded.summary,
			published_at = excluded.published_at,
			published_hint = excluded.published_hint,
			freshness = excluded.freshness,
			is_filtered = excluded.is_filtered,
			filter_reason = excluded.filter_reason
	`, sourceName, entry.Link, entry.Title, entry.Summary, publishedAt,
		entry.PublishedHint, entry.Freshness, entry.ContentHash,
		entry.IsFiltered, entry.FilterReason)

	if err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}
	return nil
}

// CheckDuplicate reports whether another source already stored the same
// content hash.
func (r *ArticleRepository) CheckDuplicate(contentHash, excludeSource string) (bool, error) {
	var id int64
	err := r.db.QueryRow(`
		SELECT id FROM articles
		WHERE content_hash = ? AND source_name != ?
		LIMIT 1
	`, contentHash, excludeSource).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}
	return true, nil
}

// GetVisibleArticles returns unfiltered articles ranked by freshness. An empty
// sourceName returns articles across all sources.
func (r *ArticleRepository) GetVisibleArticles(sourceName string, limit int) ([]Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE is_filtered = 0
	`
	args := []any{}

	if sourceName != "" {
		query += ` AND source_name = ?`
		args = append(args, sourceName)
	}

	query += ` ORDER BY freshness DESC, published_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get visible articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (r *ArticleRepository) GetArticle(id int64) (*Article, error) {
	row := r.db.QueryRow(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE id = ?
	`, id)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

// GetSourceArticles returns every stored article for a source, including
// filtered ones. Used when filters change and stored entries are re-evaluated.
func (r *ArticleRepository) GetSourceArticles(sourceName string) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE source_name = ?
		ORDER BY id
	`, sourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to get source articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (r *ArticleRepository) UpdateFilterStatus(id int64, isFiltered bool, reason string) error {
	_, err := r.db.Exec(`
		UPDATE articles
		SET is_filtered = ?, filter_reason = ?
		WHERE id = ?
	`, isFiltered, reason, id)

	if err != nil {
		return fmt.Errorf("failed to update filter status: %w", err)
	}
	return nil
}

// GetArticlesForExtraction returns pending articles that still have extraction
// attempts left, oldest first.
func (r *ArticleRepository) GetArticlesForExtraction(sourceName string, limit int) ([]ArticleForExtraction, error) {
	rows, err := r.db.Query(`
		SELECT id, link
		FROM articles
		WHERE source_name = ?
			AND is_filtered = 0
			AND extraction_status = 'pending'
			AND extraction_attempts < ?
		ORDER BY id
		LIMIT ?
	`, sourceName, maxExtractionAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles for extraction: %w", err)
	}
	defer rows.Close()

	var articles []ArticleForExtraction
	for rows.Next() {
		var article ArticleForExtraction
		if err := rows.Scan(&article.ID, &article.Link); err != nil {
			return nil, fmt.Errorf("failed to scan article for extraction: %w", err)
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// MarkExtractionFailed records a failed attempt. The article stays pending
// until attempts run out, then moves to failed.
func (r *ArticleRepository) MarkExtractionFailed(id int64, extractionError string) error {
	_, err := r.db.Exec(`
		UPDATE articles
		SET extraction_attempts = extraction_attempts + 1,
			extraction_error = ?,
			extraction_status = CASE
				WHEN extraction_attempts + 1 >= ? THEN 'failed'
				ELSE 'pending'
			END
		WHERE id = ?
	`, extractionError, maxExtractionAttempts, id)

	if err != nil {
		return fmt.Errorf("failed to mark extraction failed: %w", err)
	}
	return nil
}

// SaveExtractedContent stores an extraction outcome. Content that failed the
// quality gate is kept but marked low_confidence and not retried.
func (r *ArticleRepository) SaveExtractedContent(id int64, content, excerpt string, wordCount, qualityScore int, success bool) error {
	status := "success"
	if !success {
		status = "low_confidence"
	}

	_, err := r.db.Exec(`
		UPDATE articles
		SET content = ?,
			excerpt = ?,
			word_count = ?,
			quality_score = ?,
			extraction_status = ?,
			extraction_error = '',
			extraction_attempts = extraction_attempts + 1,
			extracted_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, content, excerpt, wordCount, qualityScore, status, id)

	if err != nil {
		return fmt.Errorf("failed to save extracted content: %w", err)
	}
	return nil
}

// SkipExtraction marks an article as intentionally not extracted.
func (r *ArticleRepository) SkipExtraction(id int64) error {
	_, err := r.db.Exec(`
		UPDATE articles
		SET extraction_status = 'skipped'
		WHERE id = ?
	`, id)

	if err != nil {
		return fmt.Errorf("failed to skip extraction: %w", err)
	}
	return nil
}

// ArticleStats summarizes stored articles for the stats endpoint.
type ArticleStats struct {
	Total     int
	Visible   int
	Filtered  int
	Extracted int
}

func (r *ArticleRepository) GetStats() (*ArticleStats, error) {
	var stats ArticleStats
	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(CASE WHEN is_filtered = 0 THEN 1 END),
			COUNT(CASE WHEN is_filtered = 1 THEN 1 END),
			COUNT(CASE WHEN extraction_status = 'success' THEN 1 END)
		FROM articles
	`).Scan(&stats.Total, &stats.Visible, &stats.Filtered, &stats.Extracted)

	if err != nil {
		return nil, fmt.Errorf("failed to get article stats: %w", err)
	}
	return &stats, nil
}

const articleColumns = `id, source_name, link, title, summary, published_at,
	published_hint, freshness, content_hash, is_filtered, filter_reason,
	content, excerpt, word_count, quality_score, extraction_status,
	extraction_error, extraction_attempts, extracted_at, created_at`

func scanArticle(row rowScanner) (*Article, error) {
	var article Article
	var publishedAt, extractedAt sql.NullTime

	err := row.Scan(&article.ID, &article.SourceName, &article.Link,
		&article.Title, &article.Summary, &publishedAt, &article.PublishedHint,
		&article.Freshness, &article.ContentHash, &article.IsFiltered,
		&article.FilterReason, &article.Content, &article.Excerpt,
		&article.WordCount, &article.QualityScore, &article.ExtractionStatus,
		&article.ExtractionError, &article.ExtractionAttempts, &extractedAt,
		&article.CreatedAt)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		article.PublishedAt = &publishedAt.Time
	}
	if extractedAt.Valid {
		article.ExtractedAt = &extractedAt.Time
	}
	return &article, nil
}

func collectArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	return articles, rows.Err()
}
