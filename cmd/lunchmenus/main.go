package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"lunchmenus/internal/archive"
	"lunchmenus/internal/cache"
	"lunchmenus/internal/config"
	"lunchmenus/internal/database"
	"lunchmenus/internal/directory"
	"lunchmenus/internal/extract"
	"lunchmenus/internal/llm"
	"lunchmenus/internal/menu"
	"lunchmenus/internal/metrics"
	"lunchmenus/internal/scrape"
	"lunchmenus/internal/server"
	"lunchmenus/internal/shared"
	"lunchmenus/internal/weekday"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	textGen, closer, err := newTextGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize text generator: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	rawStore, err := archive.NewRawStore(cfg.ArchivePath)
	if err != nil {
		log.Fatalf("Failed to initialize raw archive: %v", err)
	}

	cacheStore := cache.NewStore(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	extractor := extract.NewExtractor(textGen)
	registry := scrape.NewRegistry(cfg, extractor, metricsStore)
	resolver := &weekday.Resolver{WeekendDefault: cfg.WeekendDefault}
	processor := menu.NewProcessor(cacheStore, registry, extractor, resolver, metricsStore, rawStore)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		logger := log.New(os.Stdout, "lunchmenus ", log.LstdFlags)
		srv := server.New(logger, processor, cfg.ListenAddr)
		if err := srv.Run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case "scrape":
		scrapeCmd := flag.NewFlagSet("scrape", flag.ExitOnError)
		day := scrapeCmd.String("day", "", "Weekday name in Finnish or English (default: today)")
		langFlag := scrapeCmd.String("lang", "fi", "Menu language: fi or en")
		refresh := scrapeCmd.Bool("refresh", false, "Bypass the cache")
		scrapeCmd.Parse(os.Args[2:])

		if err := scrapeAll(ctx, processor, *day, shared.ParseLanguage(*langFlag), *refresh); err != nil {
			log.Fatalf("Scrape failed: %v", err)
		}
	case "cache-cleanup":
		cleanupCmd := flag.NewFlagSet("cache-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", cfg.CacheRetentionDays, "Keep cache entries for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		removed, err := cacheStore.CleanOld(ctx, *days)
		if err != nil {
			log.Fatalf("Cache cleanup failed: %v", err)
		}
		fmt.Printf("Removed %d old cache entries.\n", removed)
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep metric records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		removed, err := metricsStore.Cleanup(ctx, *days)
		if err != nil {
			log.Fatalf("Metrics cleanup failed: %v", err)
		}
		fmt.Printf("Removed %d old metric records.\n", removed)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// newTextGenerator prefers Groq for its JSON-mode latency, falling back to
// Gemini when only that key is configured.
func newTextGenerator(ctx context.Context, cfg *config.Config) (llm.TextGenerator, llm.Closer, error) {
	if cfg.GroqAPIKey != "" {
		return llm.NewGroqClient(cfg), nil, nil
	}
	return llm.NewGeminiClient(ctx, cfg)
}

func scrapeAll(ctx context.Context, processor *menu.Processor, day string, lang shared.Language, refresh bool) error {
	for _, rest := range directory.ListRestaurants() {
		res, err := processor.GetMenu(ctx, rest.ID, rest.Name, lang, menu.Options{
			TargetDay: day,
			SkipCache: refresh,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", rest.ID, err)
		}
		source := "scraped"
		if res.FromCache {
			source = "cached"
		}
		fmt.Printf("=== %s (%s, %s)\n%s\n\n", rest.Name, res.DateKey, source, res.ParsedMenu)
	}
	return nil
}

func printUsage() {
	fmt.Println("Usage: lunchmenus <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve              Start the HTTP API")
	fmt.Println("  scrape             Fetch every restaurant's menu and print it")
	fmt.Println("  cache-cleanup      Remove old menu cache entries")
	fmt.Println("  metrics-cleanup    Remove old extraction metric records")
}
