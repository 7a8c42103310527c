// Package archive keeps raw scraped menu text on disk. When the AI fallback
// cannot produce a parse, the raw text is retained here so a later pass (or
// a human) can re-parse it without re-scraping.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lunchmenus/internal/shared"
)

// RawStore provides file-based storage for raw menu snapshots.
type RawStore struct {
	basePath string
}

// NewRawStore creates a new RawStore and ensures the base directory exists.
func NewRawStore(basePath string) (*RawStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", basePath, err)
	}
	return &RawStore{basePath: basePath}, nil
}

func (s *RawStore) snapshotPath(restaurantID, dateKey string, lang shared.Language) string {
	filename := fmt.Sprintf("%s_%s_%s.txt", restaurantID, dateKey, lang)
	return filepath.Join(s.basePath, filename)
}

// Save stores a raw snapshot, overwriting any previous one for the same
// restaurant, date and language.
func (s *RawStore) Save(restaurantID, dateKey string, lang shared.Language, raw string) error {
	path := s.snapshotPath(restaurantID, dateKey, lang)
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// Load retrieves a raw snapshot.
func (s *RawStore) Load(restaurantID, dateKey string, lang shared.Language) (string, error) {
	data, err := os.ReadFile(s.snapshotPath(restaurantID, dateKey, lang))
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return string(data), nil
}

// Exists checks whether a snapshot is present.
func (s *RawStore) Exists(restaurantID, dateKey string, lang shared.Language) bool {
	_, err := os.Stat(s.snapshotPath(restaurantID, dateKey, lang))
	return !os.IsNotExist(err)
}

// RemoveStale removes all snapshots for a restaurant except the given date.
func (s *RawStore) RemoveStale(restaurantID, keepDate string) error {
	pattern := filepath.Join(s.basePath, fmt.Sprintf("%s_*.txt", restaurantID))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to glob stale snapshots: %w", err)
	}

	for _, match := range matches {
		if strings.Contains(filepath.Base(match), "_"+keepDate+"_") {
			continue
		}
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove stale snapshot %s: %w", match, err)
		}
	}
	return nil
}
