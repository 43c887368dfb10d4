package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SourceRepository handles database operations for sources
type SourceRepository struct {
	db *DB
}

func NewSourceRepository(db *DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// UpsertSource registers a source or refreshes its settings. Configured and
// user-defined sources go through the same row; user_defined marks ownership.
// config carries the serialized configuration of user-defined sources so they
// can be restored fully on startup; YAML-backed sources store an empty string.
func (r *SourceRepository) UpsertSource(name, url, kind string, userDefined, enabled bool, config string) error {
	_, err := r.db.Exec(`
		INSERT INTO sources (name, url, kind, user_defined, enabled, config)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			url = excluded.url,
			kind = excluded.kind,
			user_defined = excluded.user_defined,
			enabled = excluded.enabled,
			config = excluded.config,
			updated_at = CURRENT_TIMESTAMP
	`, name, url, kind, userDefined, enabled, config)

	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}
	return nil
}

func (r *SourceRepository) GetSource(name string) (*Source, error) {
	row := r.db.QueryRow(`
		SELECT name, url, kind, user_defined, enabled, config,
			last_fetched_at, next_fetch_at, created_at, updated_at
		FROM sources
		WHERE name = ?
	`, name)

	source, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	return source, nil
}

func (r *SourceRepository) GetSources() ([]Source, error) {
	rows, err := r.db.Query(`
		SELECT name, url, kind, user_defined, enabled, config,
			last_fetched_at, next_fetch_at, created_at, updated_at
		FROM sources
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	return collectSources(rows)
}

// GetUserDefinedSources returns sources created through the API, so they can
// be restored into the config cache on startup.
func (r *SourceRepository) GetUserDefinedSources() ([]Source, error) {
	rows, err := r.db.Query(`
		SELECT name, url, kind, user_defined, enabled, config,
			last_fetched_at, next_fetch_at, created_at, updated_at
		FROM sources
		WHERE user_defined = 1
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user-defined sources: %w", err)
	}
	defer rows.Close()

	return collectSources(rows)
}

func (r *SourceRepository) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sources`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sources: %w", err)
	}
	return count, nil
}

func (r *SourceRepository) DeleteSource(name string) error {
	result, err := r.db.Exec(`DELETE FROM sources WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("source '%s' not found", name)
	}
	return nil
}

// ScheduleImmediateFetch clears the source's fetch schedule so the next
// scheduler tick picks it up right away.
func (r *SourceRepository) ScheduleImmediateFetch(name string) error {
	result, err := r.db.Exec(`
		UPDATE sources
		SET next_fetch_at = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, name)
	if err != nil {
		return fmt.Errorf("failed to schedule fetch: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check schedule result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("source '%s' not found", name)
	}
	return nil
}

// UpdateFetchTimes records a completed fetch and schedules the next one.
func (r *SourceRepository) UpdateFetchTimes(name string, lastFetched, nextFetch time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET last_fetched_at = ?, next_fetch_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, lastFetched, nextFetch, name)

	if err != nil {
		return fmt.Errorf("failed to update fetch times: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*Source, error) {
	var source Source
	var lastFetchedAt, nextFetchAt sql.NullTime

	err := row.Scan(&source.Name, &source.URL, &source.Kind, &source.UserDefined,
		&source.Enabled, &source.Config, &lastFetchedAt, &nextFetchAt, &source.CreatedAt, &source.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lastFetchedAt.Valid {
		source.LastFetchedAt = &lastFetchedAt.Time
	}
	if nextFetchAt.Valid {
		source.NextFetchAt = &nextFetchAt.Time
	}
	return &source, nil
}

func collectSources(rows *sql.Rows) ([]Source, error) {
	var sources []Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, *source)
	}
	return sources, rows.Err()
}
