package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"lunchmenus/internal/shared"
	"lunchmenus/internal/textutil"
)

// WordPressScraper tries the WordPress REST content field first and falls
// back to fetching the public lunch page directly. Both paths funnel into
// the shared day-block parser keyed by the site's weekday+date headings.
type WordPressScraper struct {
	ID      string
	Name    string
	APIURL  string
	PageURL string
	Client  *http.Client
}

type wpPage struct {
	Content struct {
		Rendered string `json:"rendered"`
	} `json:"content"`
}

func (s *WordPressScraper) Scrape(ctx context.Context, opts Options) Result {
	html, err := s.fetchRendered(ctx)
	if err != nil {
		log.Printf("scrape %s: REST path failed (%v), falling back to page HTML", s.ID, err)
		body, pageErr := fetchWithRetry(ctx, s.Client, s.PageURL)
		if pageErr != nil {
			return failure(s.ID, s.Name, fmt.Sprintf("REST failed (%v) and page fetch failed (%v)", err, pageErr))
		}
		html = string(body)
	}

	text := textutil.StripMarkup(html)
	block, found, ok := ExtractDayBlock(text, opts.TargetDay)
	if !ok {
		if len(found) > 0 {
			// This vendor genuinely publishes partial weeks; a missing day is
			// normal content, not a failure, so the user gets an explanation.
			return Result{
				RestaurantID:   s.ID,
				RestaurantName: s.Name,
				RawMenu:        missingDayMessage(opts.TargetDay, opts.Language),
				Success:        true,
			}
		}
		// No markers at all: structural failure, keep the text for AI fallback.
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

func (s *WordPressScraper) fetchRendered(ctx context.Context) (string, error) {
	body, err := fetchWithRetry(ctx, s.Client, s.APIURL)
	if err != nil {
		return "", err
	}

	var pages []wpPage
	if err := json.Unmarshal(body, &pages); err != nil {
		return "", fmt.Errorf("failed to decode REST response: %w", err)
	}
	if len(pages) == 0 || pages[0].Content.Rendered == "" {
		return "", fmt.Errorf("REST response has no rendered content")
	}
	return pages[0].Content.Rendered, nil
}

func missingDayMessage(targetDay string, lang shared.Language) string {
	if lang == shared.LangEnglish {
		return fmt.Sprintf("%s has not published a lunch menu for %s this week. Please check their website.",
			"Bistro Bruno", dayNames(targetDay)[1])
	}
	return fmt.Sprintf("Bistro Bruno ei ole julkaissut lounaslistaa päivälle %s tällä viikolla. Tarkista ravintolan omat sivut.",
		targetDay)
}
