// Package menu ties the weekday resolver, the day cache, the scraper
// registry and the AI fallback together into one per-restaurant get-menu
// operation.
package menu

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"lunchmenus/internal/cache"
	"lunchmenus/internal/scrape"
	"lunchmenus/internal/shared"
	"lunchmenus/internal/weekday"
)

// ErrUnknownRestaurant marks a restaurant id with no registered scraper.
// Unlike scrape failures this is a configuration error: the directory and
// the registry have drifted apart, and masking that would hide the bug.
var ErrUnknownRestaurant = errors.New("unknown restaurant id")

// Result is the orchestrator's answer to the request layer. ParsedMenu is
// never empty when RawMenu is non-empty. DateKey reports which calendar
// date the menu was resolved for.
type Result struct {
	RawMenu    string
	ParsedMenu string
	FromCache  bool
	DateKey    string
}

// Options adjust a single GetMenu call.
type Options struct {
	// TargetDay is a weekday name in either language; empty means today.
	TargetDay string
	// DateKey overrides the calendar date; empty means today's key.
	DateKey string
	// SkipCache forces a fresh scrape.
	SkipCache bool
}

// Store is the day-cache collaborator.
type Store interface {
	GetWithValidation(ctx context.Context, restaurantID string, lang shared.Language, dateKey string) (*cache.Entry, error)
	Set(ctx context.Context, restaurantID, restaurantName string, lang shared.Language, rawMenu, parsedMenu, dateKey string) error
}

// TextParser is the generic AI parse variant used as the fallback parser.
type TextParser interface {
	ParseMenuText(ctx context.Context, menuText, restaurantName string) (string, shared.AgentMeta, error)
}

// MetricsRecorder receives token usage of fallback parse calls.
type MetricsRecorder interface {
	RecordMeta(ctx context.Context, meta shared.AgentMeta) error
}

// Archiver retains raw text that could not be parsed.
type Archiver interface {
	Save(restaurantID, dateKey string, lang shared.Language, raw string) error
}

// Processor is the menu pipeline façade. It is stateless per call and safe
// for concurrent use across restaurants; concurrent misses on the same
// (restaurant, language, date) key are collapsed into one scrape.
type Processor struct {
	store    Store
	registry scrape.Registry
	parser   TextParser
	resolver *weekday.Resolver
	metrics  MetricsRecorder
	archive  Archiver

	flight singleflight.Group
}

// NewProcessor wires the pipeline. metrics and archive may be nil.
func NewProcessor(store Store, registry scrape.Registry, parser TextParser, resolver *weekday.Resolver, metrics MetricsRecorder, archive Archiver) *Processor {
	if resolver == nil {
		resolver = &weekday.Resolver{}
	}
	return &Processor{
		store:    store,
		registry: registry,
		parser:   parser,
		resolver: resolver,
		metrics:  metrics,
		archive:  archive,
	}
}

// GetMenu returns one restaurant's menu for the requested day and language:
// cache first, scrape on miss, AI parse when the scrape got content without
// structural confidence, and a synthetic unavailable message as the last
// resort. Per-restaurant steps are strictly sequential; only unknown
// restaurant ids surface as an error.
func (p *Processor) GetMenu(ctx context.Context, restaurantID, restaurantName string, lang shared.Language, opts Options) (Result, error) {
	targetDay := p.resolver.Normalize(opts.TargetDay)
	dateKey := opts.DateKey
	if dateKey == "" {
		// A request for a day other than today (including the weekend
		// default) refers to that day's next calendar date.
		dateKey = p.resolver.DateKeyFor(targetDay)
	}

	if _, ok := p.registry[restaurantID]; !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownRestaurant, restaurantID)
	}

	if !opts.SkipCache {
		entry, err := p.store.GetWithValidation(ctx, restaurantID, lang, dateKey)
		if err != nil {
			log.Printf("menu %s: cache lookup failed, treating as miss: %v", restaurantID, err)
		} else if entry != nil {
			return Result{RawMenu: entry.RawMenu, ParsedMenu: entry.ParsedMenu, FromCache: true, DateKey: dateKey}, nil
		}
	}

	key := restaurantID + "|" + string(lang) + "|" + dateKey
	v, err, _ := p.flight.Do(key, func() (interface{}, error) {
		return p.scrapeAndCache(ctx, restaurantID, restaurantName, lang, targetDay, dateKey), nil
	})
	if err != nil {
		return Result{}, err
	}
	res := v.(Result)
	res.DateKey = dateKey
	return res, nil
}

func (p *Processor) scrapeAndCache(ctx context.Context, restaurantID, restaurantName string, lang shared.Language, targetDay, dateKey string) Result {
	scraper := p.registry[restaurantID]
	res := scraper.Scrape(ctx, scrape.Options{TargetDay: targetDay, DateKey: dateKey, Language: lang})

	switch {
	case res.Success && strings.TrimSpace(res.RawMenu) != "":
		// Structured parse succeeded: raw doubles as parsed.
		p.cache(ctx, restaurantID, restaurantName, lang, res.RawMenu, res.RawMenu, dateKey)
		return Result{RawMenu: res.RawMenu, ParsedMenu: res.RawMenu}

	case strings.TrimSpace(res.RawMenu) != "":
		// Content without structural confidence: one AI parse attempt.
		log.Printf("menu %s: structural parse failed (%s), trying AI fallback", restaurantID, res.Err)
		parsed, meta, err := p.parser.ParseMenuText(ctx, res.RawMenu, restaurantName)
		p.recordMeta(ctx, meta)
		if err != nil || strings.TrimSpace(parsed) == "" {
			log.Printf("menu %s: AI fallback failed: %v", restaurantID, err)
			p.archiveRaw(restaurantID, dateKey, lang, res.RawMenu)
			return p.unavailable(lang)
		}
		p.cache(ctx, restaurantID, restaurantName, lang, res.RawMenu, parsed, dateKey)
		return Result{RawMenu: res.RawMenu, ParsedMenu: parsed}

	default:
		// Nothing fetched at all. The negative result is not cached so the
		// next request retries instead of sticking all day.
		log.Printf("menu %s: scrape produced no content: %s", restaurantID, res.Err)
		return p.unavailable(lang)
	}
}

func (p *Processor) cache(ctx context.Context, restaurantID, restaurantName string, lang shared.Language, raw, parsed, dateKey string) {
	if err := p.store.Set(ctx, restaurantID, restaurantName, lang, raw, parsed, dateKey); err != nil {
		log.Printf("menu %s: cache write failed, serving uncached: %v", restaurantID, err)
	}
}

func (p *Processor) recordMeta(ctx context.Context, meta shared.AgentMeta) {
	if p.metrics == nil {
		return
	}
	if err := p.metrics.RecordMeta(ctx, meta); err != nil {
		log.Printf("menu: failed to record extraction metrics: %v", err)
	}
}

func (p *Processor) archiveRaw(restaurantID, dateKey string, lang shared.Language, raw string) {
	if p.archive == nil {
		return
	}
	if err := p.archive.Save(restaurantID, dateKey, lang, raw); err != nil {
		log.Printf("menu %s: failed to archive raw text: %v", restaurantID, err)
	}
}

func (p *Processor) unavailable(lang shared.Language) Result {
	msg := unavailableMessage(lang)
	return Result{RawMenu: msg, ParsedMenu: msg}
}

func unavailableMessage(lang shared.Language) string {
	if lang == shared.LangEnglish {
		return "Menu is not available for this restaurant right now. Please check the restaurant's own website."
	}
	return "Ruokalistaa ei ole juuri nyt saatavilla. Tarkista ravintolan omat sivut."
}
