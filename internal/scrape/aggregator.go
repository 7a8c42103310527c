package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"lunchmenus/internal/textutil"
)

// AggregatorScraper reads a third-party content-aggregation API: the lunch
// list lives inside ordinary articles, so the latest article in the right
// section is located first and weekday markers are searched inside its body.
type AggregatorScraper struct {
	ID      string
	Name    string
	APIURL  string
	Section string
	Client  *http.Client
}

type aggregatorFeed struct {
	Items []struct {
		Title   string `json:"title"`
		Section string `json:"section"`
		Body    string `json:"body"`
	} `json:"items"`
}

func (s *AggregatorScraper) Scrape(ctx context.Context, opts Options) Result {
	body, err := fetchWithRetry(ctx, s.Client, s.APIURL)
	if err != nil {
		return failure(s.ID, s.Name, fmt.Sprintf("failed to fetch articles: %v", err))
	}

	var feed aggregatorFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return failure(s.ID, s.Name, fmt.Sprintf("failed to decode articles: %v", err))
	}

	// Articles arrive newest first; the first one in the lunch section wins.
	for _, item := range feed.Items {
		if !strings.EqualFold(item.Section, s.Section) {
			continue
		}
		text := textutil.StripMarkup(item.Body)
		block, found, ok := ExtractDayBlock(text, opts.TargetDay)
		if !ok {
			return Result{
				RestaurantID:   s.ID,
				RestaurantName: s.Name,
				RawMenu:        text,
				Err:            dayAbsentError(opts.TargetDay, found),
			}
		}
		return Result{
			RestaurantID:   s.ID,
			RestaurantName: s.Name,
			RawMenu:        block,
			Success:        true,
		}
	}

	return failure(s.ID, s.Name, fmt.Sprintf("no article in section %q among %d items", s.Section, len(feed.Items)))
}
