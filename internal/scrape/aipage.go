package scrape

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lunchmenus/internal/extract"
	"lunchmenus/internal/textutil"
)

// contentMinChars is the size threshold below which a candidate content
// region is considered too thin and the whole body is used instead.
const contentMinChars = 400

// candidate selectors for the plausible menu region of a marketing page,
// most specific first.
var contentSelectors = []string{
	"main", "article", ".entry-content", ".content", "#content", ".lounas", ".menu",
}

// AIPageScraper handles restaurants whose sites have no stable markup: the
// page is narrowed to a plausible content region and handed to the AI
// extraction adapter with an explicit target day and language.
type AIPageScraper struct {
	ID        string
	Name      string
	PageURL   string
	Client    *http.Client
	Extractor *extract.Extractor
	// Metrics, when set, records token usage of extraction calls.
	Metrics MetricsRecorder
}

func (s *AIPageScraper) Scrape(ctx context.Context, opts Options) Result {
	doc, err := fetchDoc(ctx, s.Client, s.PageURL)
	if err != nil {
		return failure(s.ID, s.Name, fmt.Sprintf("failed to fetch page: %v", err))
	}

	content := textutil.CleanWhitespace(narrowContent(doc))
	if content == "" {
		return failure(s.ID, s.Name, "page has no text content")
	}

	items, meta, err := s.Extractor.ExtractDay(ctx, extract.DayRequest{
		Content:        content,
		RestaurantName: s.Name,
		TargetDay:      opts.TargetDay,
		Language:       opts.Language,
	})
	if err != nil {
		log.Printf("scrape %s: AI extraction error: %v", s.ID, err)
	}
	if s.Metrics != nil {
		if err := s.Metrics.RecordMeta(ctx, meta); err != nil {
			log.Printf("scrape %s: failed to record extraction metrics: %v", s.ID, err)
		}
	}

	if items.Success {
		kept := extract.FilterNoise(items.Items)
		if len(kept) >= extract.MinMenuItems {
			return Result{
				RestaurantID:   s.ID,
				RestaurantName: s.Name,
				RawMenu:        strings.Join(kept, "\n"),
				Success:        true,
			}
		}
		items.Error = fmt.Sprintf("only %d usable items extracted, need %d", len(kept), extract.MinMenuItems)
	}

	// Low-confidence extraction: keep the cleaned page text so the generic
	// AI parse can still try once upstream.
	return Result{
		RestaurantID:   s.ID,
		RestaurantName: s.Name,
		RawMenu:        extract.Truncate(content),
		Err:            items.Error,
	}
}

// narrowContent picks the first candidate region with enough text, widening
// to the whole body when none qualifies.
func narrowContent(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, iframe").Each(func(i int, sel *goquery.Selection) {
		sel.Remove()
	})

	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(sel.Text())
		if len(text) >= contentMinChars {
			return text
		}
	}
	return strings.TrimSpace(doc.Find("body").Text())
}
