// Package weekday resolves calendar dates and weekday names in the
// Europe/Helsinki civil timezone, independent of the host timezone.
package weekday

import (
	"log"
	"strings"
	"time"
	_ "time/tzdata"
)

// DateKeyFormat is the cache partition key format (civil date in Helsinki).
const DateKeyFormat = "2006-01-02"

var helsinki *time.Location

func init() {
	loc, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		// time/tzdata is linked in, so this only happens on a corrupt build.
		log.Printf("Warning: failed to load Europe/Helsinki, using UTC+2: %v", err)
		loc = time.FixedZone("EET", 2*60*60)
	}
	helsinki = loc
}

// Canonical Finnish weekday labels, Monday first.
var finnishLabels = [7]string{
	"Maanantai", "Tiistai", "Keskiviikko", "Torstai", "Perjantai", "Lauantai", "Sunnuntai",
}

var englishLabels = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// aliases maps lowercased Finnish/English names and abbreviations to the
// five canonical workday labels. Weekend names are deliberately absent:
// lunch menus only exist Monday through Friday.
var aliases = map[string]string{
	"maanantai": "Maanantai", "ma": "Maanantai",
	"monday": "Maanantai", "mon": "Maanantai",
	"tiistai": "Tiistai", "ti": "Tiistai",
	"tuesday": "Tiistai", "tue": "Tiistai", "tues": "Tiistai",
	"keskiviikko": "Keskiviikko", "ke": "Keskiviikko",
	"wednesday": "Keskiviikko", "wed": "Keskiviikko",
	"torstai": "Torstai", "to": "Torstai",
	"thursday": "Torstai", "thu": "Torstai", "thur": "Torstai", "thurs": "Torstai",
	"perjantai": "Perjantai", "pe": "Perjantai",
	"friday": "Perjantai", "fri": "Perjantai",
}

// mondayIndex converts time.Weekday (Sunday=0) to a Monday=0 index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// DayKey formats the given instant as YYYY-MM-DD using Helsinki calendar
// fields. Field extraction through the location keeps keys stable across
// DST switches; offset arithmetic on epoch millis would not.
func DayKey(t time.Time) string {
	return t.In(helsinki).Format(DateKeyFormat)
}

// Label returns the capitalized Finnish weekday name for the given instant.
func Label(t time.Time) string {
	return finnishLabels[mondayIndex(t.In(helsinki).Weekday())]
}

// EnglishLabel returns the English projection of a canonical Finnish label,
// or the input unchanged when it is not a canonical label.
func EnglishLabel(canonical string) string {
	for i, fi := range finnishLabels {
		if fi == canonical {
			return englishLabels[i]
		}
	}
	return canonical
}

// NextOccurrence returns the date key of the next calendar date strictly
// after from whose weekday matches the canonical day. When from itself
// falls on that weekday, the result is a full week ahead.
func NextOccurrence(canonical string, from time.Time) string {
	target := -1
	for i, fi := range finnishLabels {
		if fi == canonical {
			target = i
			break
		}
	}
	t := from.In(helsinki)
	if target < 0 {
		return DayKey(t)
	}
	delta := (target - mondayIndex(t.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return DayKey(t.AddDate(0, 0, delta))
}

// Resolver canonicalizes weekday requests. The zero value resolves against
// the wall clock and falls back to Maanantai on weekend requests.
type Resolver struct {
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
	// WeekendDefault is the canonical label used when neither the input nor
	// the current day maps to a workday. Empty means Maanantai.
	WeekendDefault string
}

func (r *Resolver) now() time.Time {
	if r != nil && r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// TodayKey returns today's date key in Helsinki.
func (r *Resolver) TodayKey() string {
	return DayKey(r.now())
}

// WeekdayLabel returns today's Finnish weekday name in Helsinki.
func (r *Resolver) WeekdayLabel() string {
	return Label(r.now())
}

// Normalize maps an English or Finnish weekday name or slug, in any case,
// to a canonical workday label. Unrecognized or empty input degrades to
// today's weekday, and a weekend degrades further to the configured
// default. Malformed input never fails: the caller is an HTTP handler
// with no better recovery than "today".
func (r *Resolver) Normalize(input string) string {
	if canonical, ok := aliases[strings.ToLower(strings.TrimSpace(input))]; ok {
		return canonical
	}
	today := Label(r.now())
	if _, ok := aliases[strings.ToLower(today)]; ok {
		return today
	}
	if r != nil && r.WeekendDefault != "" {
		log.Printf("weekday: %q does not map to a workday, defaulting to %s", input, r.WeekendDefault)
		return r.WeekendDefault
	}
	log.Printf("weekday: %q does not map to a workday, defaulting to Maanantai", input)
	return "Maanantai"
}

// NextOccurrenceKey resolves the canonical day against the resolver's clock.
func (r *Resolver) NextOccurrenceKey(canonical string) string {
	return NextOccurrence(canonical, r.now())
}

// DateKeyFor returns the date key the canonical day refers to: today when
// today falls on that weekday, otherwise its next occurrence.
func (r *Resolver) DateKeyFor(canonical string) string {
	if Label(r.now()) == canonical {
		return r.TodayKey()
	}
	return NextOccurrence(canonical, r.now())
}
