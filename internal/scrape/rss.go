package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"lunchmenus/internal/textutil"
)

// RSSScraper reads a weekly lunch feed with one item per day. The item for
// the target day is located by its title, which carries a localized day
// name ("Tiistai 26.8." or "Tuesday 26.8.").
type RSSScraper struct {
	ID      string
	Name    string
	FeedURL string
	Client  *http.Client
}

func (s *RSSScraper) Scrape(ctx context.Context, opts Options) Result {
	body, err := fetchWithRetry(ctx, s.Client, s.FeedURL)
	if err != nil {
		return failure(s.ID, s.Name, fmt.Sprintf("failed to fetch feed: %v", err))
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return failure(s.ID, s.Name, fmt.Sprintf("failed to parse feed: %v", err))
	}

	names := dayNames(opts.TargetDay)
	var titles []string
	for _, item := range feed.Items {
		titles = append(titles, item.Title)
		if !titleMatchesDay(item.Title, names) {
			continue
		}
		raw := textutil.StripMarkup(item.Description)
		if raw == "" {
			raw = textutil.StripMarkup(item.Content)
		}
		if raw == "" {
			return Result{
				RestaurantID:   s.ID,
				RestaurantName: s.Name,
				Err:            fmt.Sprintf("feed item %q has no content", item.Title),
			}
		}
		return Result{
			RestaurantID:   s.ID,
			RestaurantName: s.Name,
			RawMenu:        raw,
			Success:        true,
		}
	}

	return failure(s.ID, s.Name,
		fmt.Sprintf("no feed item for %s, item titles: %s", opts.TargetDay, strings.Join(titles, "; ")))
}

func titleMatchesDay(title string, names []string) bool {
	lower := strings.ToLower(title)
	for _, name := range names {
		name = strings.ToLower(name)
		if strings.Contains(lower, name) {
			return true
		}
		// Feeds sometimes abbreviate the day name ("Ti 26.8.").
		if len(name) > 2 && strings.HasPrefix(lower, name[:2]+" ") {
			return true
		}
	}
	return false
}
