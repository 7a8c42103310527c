// Package scrape holds one extraction routine per restaurant. The scrapers
// share nothing beyond the Result contract and the fetch/retry policy: each
// upstream has its own wire format and its own failure modes.
package scrape

import (
	"context"
	"net/http"

	"lunchmenus/internal/config"
	"lunchmenus/internal/extract"
	"lunchmenus/internal/shared"
)

// Options selects which day's menu, in which language, a scraper targets.
type Options struct {
	// TargetDay is a canonical Finnish weekday label (Maanantai..Perjantai).
	TargetDay string
	// DateKey is the Helsinki calendar date of the target day (YYYY-MM-DD).
	DateKey string
	Language shared.Language
}

// Result is what every scraper invocation produces. Success reflects
// structural confidence, not byte count: a scraper that fetched content but
// could not locate the expected structure reports Success false with the
// raw text preserved, which is what enables the AI fallback upstream.
type Result struct {
	RestaurantID   string
	RestaurantName string
	RawMenu        string
	Success        bool
	Err            string
}

func failure(id, name, errMsg string) Result {
	return Result{RestaurantID: id, RestaurantName: name, Err: errMsg}
}

// Scraper maps upstream wire content to a Result for one restaurant.
type Scraper interface {
	Scrape(ctx context.Context, opts Options) Result
}

// Registry is the static id-to-scraper dispatch table.
type Registry map[string]Scraper

// MetricsRecorder receives token usage of extraction calls.
type MetricsRecorder interface {
	RecordMeta(ctx context.Context, meta shared.AgentMeta) error
}

// NewRegistry wires the six production scrapers from configuration. The
// table, not a conditional chain, is the dispatch surface; an id missing
// here is a configuration error surfaced by the orchestrator.
func NewRegistry(cfg *config.Config, extractor *extract.Extractor, recorder MetricsRecorder) Registry {
	client := &http.Client{}
	return Registry{
		"aino": &RSSScraper{
			ID:      "aino",
			Name:    "Ravintola Aino",
			FeedURL: cfg.AinoFeedURL,
			Client:  client,
		},
		"bruno": &WordPressScraper{
			ID:      "bruno",
			Name:    "Bistro Bruno",
			APIURL:  cfg.BrunoAPIURL,
			PageURL: cfg.BrunoPageURL,
			Client:  client,
		},
		"castello": &AggregatorScraper{
			ID:      "castello",
			Name:    "Trattoria Castello",
			APIURL:  cfg.CastelloAPIURL,
			Section: "lounas",
			Client:  client,
		},
		"dagmar": &WeeklyJSONScraper{
			ID:     "dagmar",
			Name:   "Dagmar Catering",
			APIURL: cfg.DagmarAPIURL,
			Client: client,
		},
		"elsa": &AIPageScraper{
			ID:        "elsa",
			Name:      "Kahvila Elsa",
			PageURL:   cfg.ElsaPageURL,
			Client:    client,
			Extractor: extractor,
			Metrics:   recorder,
		},
		"fiika": &AIPageScraper{
			ID:        "fiika",
			Name:      "Fiika",
			PageURL:   cfg.FiikaPageURL,
			Client:    client,
			Extractor: extractor,
			Metrics:   recorder,
		},
	}
}
