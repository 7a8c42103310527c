package cache

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"lunchmenus/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE menu_cache (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			restaurant_id TEXT NOT NULL,
			restaurant_name TEXT NOT NULL,
			language TEXT NOT NULL,
			date TEXT NOT NULL,
			raw_menu TEXT NOT NULL,
			parsed_menu TEXT NOT NULL,
			scraped_at TEXT NOT NULL,
			UNIQUE (restaurant_id, date, language)
		)`)
	if err != nil {
		t.Fatalf("Failed to create menu_cache table: %v", err)
	}
	return db
}

func countEntries(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM menu_cache").Scan(&n); err != nil {
		t.Fatalf("Failed to count entries: %v", err)
	}
	return n
}

func TestSetAndGet(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	err := store.Set(ctx, "aino", "Ravintola Aino", shared.LangFinnish, "raw", "parsed", "2025-08-26")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, err := store.Get(ctx, "aino", shared.LangFinnish, "2025-08-26")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry == nil {
		t.Fatal("Expected an entry, got nil")
	}
	if entry.RestaurantName != "Ravintola Aino" {
		t.Errorf("Expected restaurant name 'Ravintola Aino', got %q", entry.RestaurantName)
	}
	if entry.ParsedMenu != "parsed" {
		t.Errorf("Expected parsed menu 'parsed', got %q", entry.ParsedMenu)
	}
	if entry.ScrapedAt.IsZero() {
		t.Error("Expected scraped_at to be set")
	}
}

func TestGetMiss(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	entry, err := store.Get(context.Background(), "aino", shared.LangFinnish, "2025-08-26")
	if err != nil {
		t.Fatalf("Expected a miss without error, got %v", err)
	}
	if entry != nil {
		t.Fatalf("Expected nil entry, got %+v", entry)
	}
}

func TestSetUpsert(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	if err := store.Set(ctx, "aino", "Ravintola Aino", shared.LangFinnish, "raw1", "parsed1", "2025-08-26"); err != nil {
		t.Fatalf("First Set failed: %v", err)
	}
	if err := store.Set(ctx, "aino", "Ravintola Aino", shared.LangFinnish, "raw2", "parsed2", "2025-08-26"); err != nil {
		t.Fatalf("Second Set failed: %v", err)
	}

	if n := countEntries(t, db); n != 1 {
		t.Fatalf("Expected 1 entry after upsert, got %d", n)
	}
	entry, err := store.Get(ctx, "aino", shared.LangFinnish, "2025-08-26")
	if err != nil || entry == nil {
		t.Fatalf("Get failed: entry=%v err=%v", entry, err)
	}
	if entry.ParsedMenu != "parsed2" {
		t.Errorf("Expected upsert to keep the newer menu, got %q", entry.ParsedMenu)
	}
}

func TestLanguagesCachedSeparately(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	if err := store.Set(ctx, "dagmar", "Dagmar Catering", shared.LangFinnish, "raw", "Keitto", "2025-08-26"); err != nil {
		t.Fatalf("Set fi failed: %v", err)
	}
	if err := store.Set(ctx, "dagmar", "Dagmar Catering", shared.LangEnglish, "raw", "Soup", "2025-08-26"); err != nil {
		t.Fatalf("Set en failed: %v", err)
	}

	if n := countEntries(t, db); n != 2 {
		t.Fatalf("Expected 2 entries, got %d", n)
	}
	fi, _ := store.Get(ctx, "dagmar", shared.LangFinnish, "2025-08-26")
	en, _ := store.Get(ctx, "dagmar", shared.LangEnglish, "2025-08-26")
	if fi == nil || en == nil {
		t.Fatal("Expected both language entries to exist")
	}
	if fi.ParsedMenu != "Keitto" || en.ParsedMenu != "Soup" {
		t.Errorf("Languages mixed up: fi=%q en=%q", fi.ParsedMenu, en.ParsedMenu)
	}
}

func TestGetWithValidation(t *testing.T) {
	t.Run("FreshHit", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewStore(db)
		ctx := context.Background()

		if err := store.Set(ctx, "bruno", "Bistro Bruno", shared.LangFinnish, "raw", "parsed", "2025-08-26"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		entry, err := store.GetWithValidation(ctx, "bruno", shared.LangFinnish, "2025-08-26")
		if err != nil {
			t.Fatalf("GetWithValidation failed: %v", err)
		}
		if entry == nil {
			t.Fatal("Expected a hit for the matching date")
		}
	})

	t.Run("StaleDateEvicted", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewStore(db)
		ctx := context.Background()

		if err := store.Set(ctx, "bruno", "Bistro Bruno", shared.LangFinnish, "raw", "parsed", "2025-08-25"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		entry, err := store.GetWithValidation(ctx, "bruno", shared.LangFinnish, "2025-08-26")
		if err != nil {
			t.Fatalf("GetWithValidation failed: %v", err)
		}
		if entry != nil {
			t.Fatalf("Expected a miss for the stale date, got %+v", entry)
		}
		if n := countEntries(t, db); n != 0 {
			t.Errorf("Expected the stale entry to be deleted, %d left", n)
		}
	})

	t.Run("EvictionScopedToLanguage", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewStore(db)
		ctx := context.Background()

		if err := store.Set(ctx, "bruno", "Bistro Bruno", shared.LangFinnish, "raw", "parsed", "2025-08-25"); err != nil {
			t.Fatalf("Set fi failed: %v", err)
		}
		if err := store.Set(ctx, "bruno", "Bistro Bruno", shared.LangEnglish, "raw", "parsed", "2025-08-26"); err != nil {
			t.Fatalf("Set en failed: %v", err)
		}

		if _, err := store.GetWithValidation(ctx, "bruno", shared.LangFinnish, "2025-08-26"); err != nil {
			t.Fatalf("GetWithValidation failed: %v", err)
		}
		en, err := store.Get(ctx, "bruno", shared.LangEnglish, "2025-08-26")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if en == nil {
			t.Error("Expected the other language's entry to survive eviction")
		}
	})

	t.Run("EmptyCache", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewStore(db)

		entry, err := store.GetWithValidation(context.Background(), "bruno", shared.LangFinnish, "2025-08-26")
		if err != nil {
			t.Fatalf("GetWithValidation failed: %v", err)
		}
		if entry != nil {
			t.Fatalf("Expected a miss, got %+v", entry)
		}
	})
}

func TestCleanOld(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	// One old entry inserted directly, one fresh via Set.
	_, err := db.Exec(`
		INSERT INTO menu_cache (restaurant_id, restaurant_name, language, date, raw_menu, parsed_menu, scraped_at)
		VALUES ('aino', 'Ravintola Aino', 'fi', '2025-07-01', 'raw', 'parsed', '2025-07-01T10:00:00Z')`)
	if err != nil {
		t.Fatalf("Failed to insert old entry: %v", err)
	}
	if err := store.Set(ctx, "bruno", "Bistro Bruno", shared.LangFinnish, "raw", "parsed", "2025-08-26"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	deleted, err := store.CleanOld(ctx, 14)
	if err != nil {
		t.Fatalf("CleanOld failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted entry, got %d", deleted)
	}
	if n := countEntries(t, db); n != 1 {
		t.Errorf("Expected 1 remaining entry, got %d", n)
	}
}
