// Package extract wraps the external structured-generation call used to pull
// menu items out of unstructured markup. Its output is never trusted as
// final: callers re-validate with the thresholds defined here before
// accepting a result.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"lunchmenus/internal/llm"
	"lunchmenus/internal/shared"
)

// Tunable acceptance thresholds. Named so boundary cases are testable
// instead of living as inline magic numbers.
const (
	// MaxInputChars caps the content handed to the model, keeping
	// extraction tractable and bounded-cost.
	MaxInputChars = 12000
	// MinMenuItems is the smallest extraction accepted as a real menu.
	MinMenuItems = 3
	// MaxItemChars drops run-on lines that are prose, not dishes.
	MaxItemChars = 160
)

// noiseLineRes match price, hours, parking and similar non-dish lines that
// models tend to sweep up from marketing pages.
var noiseLineRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+[.,]\d{2}\s*(€|eur)`),
	regexp.MustCompile(`(?i)(€|eur)\s*/\s*(kg|hlö|annos)`),
	regexp.MustCompile(`(?i)\bklo\s*\d`),
	regexp.MustCompile(`(?i)\b\d{1,2}[.:]\d{2}\s*[-–]\s*\d{1,2}[.:]\d{2}\b`),
	regexp.MustCompile(`(?i)lounas\s+(tarjolla|arkisin)`),
	regexp.MustCompile(`(?i)(pysäköinti|parkki|parking)`),
	regexp.MustCompile(`(?i)(aukioloaja|opening hours|avoinna|open mon)`),
	regexp.MustCompile(`(?i)(tervetuloa|welcome to)`),
	regexp.MustCompile(`(?i)(puh\.?\s*\d|tel\.?\s*\+?\d|www\.|https?://|@)`),
}

// DayItems is the discriminated result of the day-extraction variant.
type DayItems struct {
	Success bool
	Items   []string
	Error   string
}

// DayRequest carries the inputs of a day-extraction call.
type DayRequest struct {
	Content        string
	RestaurantName string
	TargetDay      string
	Language       shared.Language
}

// Extractor delegates menu extraction to a text-generation model.
type Extractor struct {
	textGen llm.TextGenerator
}

// NewExtractor creates an Extractor on top of the given generator.
func NewExtractor(textGen llm.TextGenerator) *Extractor {
	return &Extractor{textGen: textGen}
}

// ExtractDay extracts the menu lines for one weekday from unstructured page
// content. A model failure or a day the page does not cover comes back as
// an unsuccessful DayItems, never as a panic; the transport error is
// returned alongside for logging.
func (e *Extractor) ExtractDay(ctx context.Context, req DayRequest) (DayItems, shared.AgentMeta, error) {
	start := time.Now()
	content := Truncate(req.Content)

	prompt := fmt.Sprintf(`You are a lunch menu extraction expert. The text below was scraped from the
website of the restaurant "%s". Find the lunch menu for %s and return ONLY
that day's dishes.

Return the result strictly as a JSON object with this structure:
{
  "found": true,
  "items": ["dish one", "dish two", ...]
}

Set "found" to false and "items" to [] if the text contains no menu for that
day. Keep each dish on its own item, including its diet codes such as (L, G)
when present. Use the %s language names as they appear in the text. Do not
include prices, opening hours, addresses, or marketing text.

Scraped text:
%s`, req.RestaurantName, req.TargetDay, languageName(req.Language), content)

	resp, err := e.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{AgentName: "DayExtractor", Usage: resp.Usage, Latency: time.Since(start)}
	if err != nil {
		return DayItems{Error: "extraction call failed"}, meta, fmt.Errorf("ai extraction failed: %w", err)
	}

	var parsed struct {
		Found bool     `json:"found"`
		Items []string `json:"items"`
	}
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &parsed); err != nil {
		return DayItems{Error: "malformed extraction output"}, meta,
			fmt.Errorf("failed to parse AI response: %w", err)
	}
	if !parsed.Found {
		return DayItems{Error: fmt.Sprintf("no menu found for %s", req.TargetDay)}, meta, nil
	}
	return DayItems{Success: true, Items: parsed.Items}, meta, nil
}

// ParseMenuText is the generic free-text variant: given raw menu text whose
// structural parse did not cleanly succeed, return a cleaned-up flat menu.
func (e *Extractor) ParseMenuText(ctx context.Context, menuText, restaurantName string) (string, shared.AgentMeta, error) {
	start := time.Now()
	menuText = Truncate(menuText)

	prompt := fmt.Sprintf(`You are a lunch menu extraction expert. The text below is a scraped but
garbled lunch menu from the restaurant "%s". Reconstruct the menu as a clean
list of dishes, one per line, preserving diet codes such as (L, G).

Return the result strictly as a JSON object with this structure:
{
  "parsed_menu": "dish one\ndish two"
}

Do not include prices, opening hours or marketing text. Return ONLY the raw
JSON, without markdown code fences.

Scraped text:
%s`, restaurantName, menuText)

	resp, err := e.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{AgentName: "MenuParser", Usage: resp.Usage, Latency: time.Since(start)}
	if err != nil {
		return "", meta, fmt.Errorf("ai extraction failed: %w", err)
	}

	var parsed struct {
		ParsedMenu string `json:"parsed_menu"`
	}
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &parsed); err != nil {
		return "", meta, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if strings.TrimSpace(parsed.ParsedMenu) == "" {
		return "", meta, fmt.Errorf("extraction produced an empty menu")
	}
	return strings.TrimSpace(parsed.ParsedMenu), meta, nil
}

// FilterNoise drops price, hours and similar noise lines plus overlong prose
// from an extracted item list.
func FilterNoise(items []string) []string {
	var kept []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || len(item) > MaxItemChars {
			continue
		}
		if isNoiseLine(item) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func isNoiseLine(line string) bool {
	for _, re := range noiseLineRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Truncate enforces the input size cap on rune boundaries.
func Truncate(s string) string {
	if len(s) <= MaxInputChars {
		return s
	}
	runes := []rune(s)
	if len(runes) <= MaxInputChars {
		return s
	}
	return string(runes[:MaxInputChars])
}

// stripFences removes markdown code fences some models wrap around JSON
// despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func languageName(lang shared.Language) string {
	if lang == shared.LangEnglish {
		return "English"
	}
	return "Finnish"
}
