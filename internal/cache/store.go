// Package cache persists scraped menus keyed by (restaurant, date,
// language). It is an optimization layer, never a source of truth: callers
// treat read errors as misses and write errors as no-ops.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lunchmenus/internal/shared"
)

// Entry is one cached menu. At most one entry exists per
// (RestaurantID, Date, Language) triple; the database enforces it.
type Entry struct {
	RestaurantID   string
	RestaurantName string
	Language       shared.Language
	Date           string
	RawMenu        string
	ParsedMenu     string
	ScrapedAt      time.Time
}

// Store handles persistence of menu cache entries to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const entryColumns = "restaurant_id, restaurant_name, language, date, raw_menu, parsed_menu, scraped_at"

// Get returns the entry matching the triple exactly, or nil when absent.
func (s *Store) Get(ctx context.Context, restaurantID string, lang shared.Language, dateKey string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM menu_cache WHERE restaurant_id = ? AND language = ? AND date = ?",
		restaurantID, lang, dateKey)
	return scanEntry(row)
}

// GetWithValidation looks up the most recent entry for the restaurant and
// language regardless of date. A matching date is a hit. Any other date
// means the cache is stale: every entry for the pair with a different date
// is deleted eagerly and the lookup reports a miss. The eager delete costs
// a little I/O but guarantees at most one current entry lingers per
// restaurant and language.
func (s *Store) GetWithValidation(ctx context.Context, restaurantID string, lang shared.Language, dateKey string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM menu_cache WHERE restaurant_id = ? AND language = ? ORDER BY scraped_at DESC LIMIT 1",
		restaurantID, lang)
	entry, err := scanEntry(row)
	if err != nil || entry == nil {
		return nil, err
	}
	if entry.Date == dateKey {
		return entry, nil
	}

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM menu_cache WHERE restaurant_id = ? AND language = ? AND date <> ?",
		restaurantID, lang, dateKey); err != nil {
		return nil, fmt.Errorf("failed to evict stale cache entries: %w", err)
	}
	return nil, nil
}

// Set upserts an entry under its identity triple, refreshing scraped_at.
// When the upsert path fails it falls back to a plain insert; the unique
// constraint still protects against true duplication, so resilience wins
// over elegance here.
func (s *Store) Set(ctx context.Context, restaurantID, restaurantName string, lang shared.Language, rawMenu, parsedMenu, dateKey string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO menu_cache (restaurant_id, restaurant_name, language, date, raw_menu, parsed_menu, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (restaurant_id, date, language) DO UPDATE SET
			restaurant_name = excluded.restaurant_name,
			raw_menu = excluded.raw_menu,
			parsed_menu = excluded.parsed_menu,
			scraped_at = excluded.scraped_at`,
		restaurantID, restaurantName, lang, dateKey, rawMenu, parsedMenu, now)
	if err == nil {
		return nil
	}

	_, insErr := s.db.ExecContext(ctx, `
		INSERT INTO menu_cache (restaurant_id, restaurant_name, language, date, raw_menu, parsed_menu, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		restaurantID, restaurantName, lang, dateKey, rawMenu, parsedMenu, now)
	if insErr != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// CleanOld removes entries older than daysToKeep. This is an independent
// housekeeping pass, not tied to per-request validation.
func (s *Store) CleanOld(ctx context.Context, daysToKeep int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysToKeep).Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, "DELETE FROM menu_cache WHERE scraped_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean old cache entries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

func scanEntry(row *sql.Row) (*Entry, error) {
	var e Entry
	var scrapedAt string
	err := row.Scan(&e.RestaurantID, &e.RestaurantName, &e.Language, &e.Date, &e.RawMenu, &e.ParsedMenu, &scrapedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan cache entry: %w", err)
	}
	e.ScrapedAt, err = time.Parse(time.RFC3339, scrapedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scraped_at: %w", err)
	}
	return &e, nil
}
