package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"lunchmenus/internal/shared"
)

// WeeklyJSONScraper reads the catering vendor's weekly menu API. Courses
// carry bilingual titles and two diet-code fields; codes are passed through
// verbatim, never reinterpreted.
type WeeklyJSONScraper struct {
	ID     string
	Name   string
	APIURL string
	Client *http.Client
}

type vendorWeek struct {
	MealDates []struct {
		Date    string                  `json:"date"`
		Courses map[string]vendorCourse `json:"courses"`
	} `json:"mealdates"`
}

type vendorCourse struct {
	TitleFi            string `json:"title_fi"`
	TitleEn            string `json:"title_en"`
	DietCodes          string `json:"dietcodes"`
	AdditionalDietInfo struct {
		DietCodes string `json:"dietcodes"`
	} `json:"additionalDietInfo"`
}

func (s *WeeklyJSONScraper) Scrape(ctx context.Context, opts Options) Result {
	body, err := fetchWithRetry(ctx, s.Client, s.APIURL)
	if err != nil {
		return failure(s.ID, s.Name, fmt.Sprintf("failed to fetch weekly menu: %v", err))
	}

	var week vendorWeek
	if err := json.Unmarshal(body, &week); err != nil {
		return failure(s.ID, s.Name, fmt.Sprintf("failed to decode weekly menu: %v", err))
	}

	var dates []string
	for _, md := range week.MealDates {
		dates = append(dates, md.Date)
		if md.Date != opts.DateKey {
			continue
		}
		lines := formatCourses(md.Courses, opts.Language)
		if len(lines) == 0 {
			return failure(s.ID, s.Name, fmt.Sprintf("day %s has no courses", md.Date))
		}
		return Result{
			RestaurantID:   s.ID,
			RestaurantName: s.Name,
			RawMenu:        strings.Join(lines, "\n"),
			Success:        true,
		}
	}

	return failure(s.ID, s.Name,
		fmt.Sprintf("no menu for %s, dates present: %s", opts.DateKey, strings.Join(dates, ", ")))
}

// formatCourses renders courses in key order as "Title — CODE, CODE". The
// requested language's title is preferred with fallback to the other; the
// two vendor code fields are concatenated as they came.
func formatCourses(courses map[string]vendorCourse, lang shared.Language) []string {
	keys := make([]string, 0, len(courses))
	for k := range courses {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		// Keys are course numbers as strings; compare numerically when possible.
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})

	var lines []string
	for _, k := range keys {
		c := courses[k]
		title := c.TitleFi
		if lang == shared.LangEnglish {
			title = c.TitleEn
		}
		if title == "" {
			if title = c.TitleEn; lang == shared.LangEnglish {
				title = c.TitleFi
			}
		}
		if title == "" {
			continue
		}

		codes := joinDietCodes(c.DietCodes, c.AdditionalDietInfo.DietCodes)
		if codes != "" {
			lines = append(lines, fmt.Sprintf("%s — %s", title, codes))
		} else {
			lines = append(lines, title)
		}
	}
	return lines
}

func joinDietCodes(fields ...string) string {
	var parts []string
	for _, field := range fields {
		for _, code := range strings.Split(field, ",") {
			code = strings.TrimSpace(code)
			if code != "" {
				parts = append(parts, code)
			}
		}
	}
	return strings.Join(parts, ", ")
}
