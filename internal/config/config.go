package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the configuration for the application.
type Config struct {
	ListenAddr  string
	DBPath      string
	ArchivePath string

	GeminiAPIKey string
	GroqAPIKey   string

	// CacheRetentionDays bounds the age-based cache purge.
	CacheRetentionDays int
	// WeekendDefault is the canonical weekday served for weekend requests.
	WeekendDefault string

	// Upstream endpoints, overridable per environment (and in tests).
	AinoFeedURL     string
	BrunoAPIURL     string
	BrunoPageURL    string
	CastelloAPIURL  string
	DagmarAPIURL    string
	ElsaPageURL     string
	FiikaPageURL    string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if geminiAPIKey == "" && groqAPIKey == "" {
		return nil, fmt.Errorf("neither GEMINI_API_KEY nor GROQ_API_KEY environment variable is set")
	}

	retentionDays := 14
	if v := os.Getenv("CACHE_RETENTION_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid CACHE_RETENTION_DAYS value %q", v)
		}
		retentionDays = n
	}

	return &Config{
		ListenAddr:  envOr("LISTEN_ADDR", ":8080"),
		DBPath:      envOr("DB_PATH", "data/lunchmenus.db"),
		ArchivePath: envOr("ARCHIVE_PATH", "data/raw-archive"),

		GeminiAPIKey: geminiAPIKey,
		GroqAPIKey:   groqAPIKey,

		CacheRetentionDays: retentionDays,
		WeekendDefault:     envOr("WEEKEND_DEFAULT_DAY", "Maanantai"),

		AinoFeedURL:    envOr("AINO_FEED_URL", "https://ravintola-aino.fi/lounas/feed/"),
		BrunoAPIURL:    envOr("BRUNO_API_URL", "https://bistrobruno.fi/wp-json/wp/v2/pages?slug=lounas"),
		BrunoPageURL:   envOr("BRUNO_PAGE_URL", "https://bistrobruno.fi/lounas/"),
		CastelloAPIURL: envOr("CASTELLO_API_URL", "https://menuviikko.fi/api/v1/articles?limit=10"),
		DagmarAPIURL:   envOr("DAGMAR_API_URL", "https://api.dagmar-catering.fi/menu/week"),
		ElsaPageURL:    envOr("ELSA_PAGE_URL", "https://kahvilaelsa.fi/lounas/"),
		FiikaPageURL:   envOr("FIIKA_PAGE_URL", "https://fiika.fi/"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
