package config

import (
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "groq_key")
		t.Setenv("LISTEN_ADDR", ":9999")
		t.Setenv("CACHE_RETENTION_DAYS", "7")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GroqAPIKey != "groq_key" {
			t.Errorf("Expected GroqAPIKey to be 'groq_key', got '%s'", cfg.GroqAPIKey)
		}
		if cfg.ListenAddr != ":9999" {
			t.Errorf("Expected ListenAddr ':9999', got '%s'", cfg.ListenAddr)
		}
		if cfg.CacheRetentionDays != 7 {
			t.Errorf("Expected CacheRetentionDays 7, got %d", cfg.CacheRetentionDays)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("LISTEN_ADDR", "")
		t.Setenv("CACHE_RETENTION_DAYS", "")
		t.Setenv("WEEKEND_DEFAULT_DAY", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.ListenAddr != ":8080" {
			t.Errorf("Expected default ListenAddr ':8080', got '%s'", cfg.ListenAddr)
		}
		if cfg.CacheRetentionDays != 14 {
			t.Errorf("Expected default CacheRetentionDays 14, got %d", cfg.CacheRetentionDays)
		}
		if cfg.WeekendDefault != "Maanantai" {
			t.Errorf("Expected default WeekendDefault 'Maanantai', got '%s'", cfg.WeekendDefault)
		}
	})

	t.Run("MissingAPIKeys", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GROQ_API_KEY", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error when no API key is set, got nil")
		}
	})

	t.Run("InvalidRetention", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "groq_key")
		t.Setenv("CACHE_RETENTION_DAYS", "zero")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid CACHE_RETENTION_DAYS, got nil")
		}
	})
}
