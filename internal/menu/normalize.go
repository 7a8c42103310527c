package menu

import (
	"strings"

	"lunchmenus/internal/shared"
	"lunchmenus/internal/textutil"
)

// Item is one dish with derived dietary metadata.
type Item struct {
	Name      string            `json:"name"`
	DietCodes []string          `json:"dietCodes,omitempty"`
	Type      textutil.DishType `json:"type"`
}

// NormalizedMenu is the structured projection of a flat menu text. It is
// recomputed on demand and never persisted: classification stays a pure
// function of text, so it can be improved without invalidating the cache.
type NormalizedMenu struct {
	RestaurantID   string          `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	DayKey         string          `json:"dayKey"`
	Language       shared.Language `json:"language"`
	Items          []Item          `json:"items"`
	Source         string          `json:"source"`
}

// Normalize derives the structured menu from parsed text. Diet codes are
// extracted verbatim; dish types come from keyword classification, a
// documented decoupling since the same code letter means different things
// across vendors.
func Normalize(restaurantID, restaurantName, dayKey string, lang shared.Language, parsedMenu, source string) NormalizedMenu {
	nm := NormalizedMenu{
		RestaurantID:   restaurantID,
		RestaurantName: restaurantName,
		DayKey:         dayKey,
		Language:       lang,
		Source:         source,
	}
	for _, line := range strings.Split(parsedMenu, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		nm.Items = append(nm.Items, Item{
			Name:      line,
			DietCodes: textutil.ExtractDietCodes(line),
			Type:      textutil.ClassifyDishType(line),
		})
	}
	return nm
}
