// Package directory is the read-only restaurant catalog the menu pipeline
// consumes. Ids are stable slugs: the scraper registry is keyed by them.
package directory

// Descriptor describes one restaurant.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

var restaurants = []Descriptor{
	{
		ID:          "aino",
		Name:        "Ravintola Aino",
		Location:    "Keskuskatu 3",
		Description: "Weekly lunch list published as an RSS feed, one item per day.",
	},
	{
		ID:          "bruno",
		Name:        "Bistro Bruno",
		Location:    "Satamakatu 12",
		Description: "WordPress site; lunch page lists the week under weekday headings.",
	},
	{
		ID:          "castello",
		Name:        "Trattoria Castello",
		Location:    "Linnankatu 8",
		Description: "Menu appears inside a third-party content aggregator's articles.",
	},
	{
		ID:          "dagmar",
		Name:        "Dagmar Catering",
		Location:    "Teollisuustie 22",
		Description: "Catering vendor with a weekly JSON API and bilingual course titles.",
	},
	{
		ID:          "elsa",
		Name:        "Kahvila Elsa",
		Location:    "Puistotie 1",
		Description: "Marketing site with no stable markup; menus extracted with AI.",
	},
	{
		ID:          "fiika",
		Name:        "Fiika",
		Location:    "Rantabulevardi 5",
		Description: "Marketing site with no stable markup; menus extracted with AI.",
	},
}

// ListRestaurants returns the supported restaurants in display order.
func ListRestaurants() []Descriptor {
	out := make([]Descriptor, len(restaurants))
	copy(out, restaurants)
	return out
}

// ByID looks up a restaurant descriptor.
func ByID(id string) (Descriptor, bool) {
	for _, d := range restaurants {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}
