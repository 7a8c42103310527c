package scrape

import (
	"fmt"
	"regexp"
	"strings"

	"lunchmenus/internal/weekday"
)

// Day markers shared by the structured scrapers. Weekend names are included
// so a Friday block does not swallow Saturday boilerplate; they are never
// valid extraction targets themselves.
var markerDays = []struct {
	Canonical string
	Pattern   *regexp.Regexp
}{
	{"Maanantai", regexp.MustCompile(`(?i)\b(maanantai|monday)\b(\s+\d{1,2}\.\d{1,2}\.?)?`)},
	{"Tiistai", regexp.MustCompile(`(?i)\b(tiistai|tuesday)\b(\s+\d{1,2}\.\d{1,2}\.?)?`)},
	{"Keskiviikko", regexp.MustCompile(`(?i)\b(keskiviikko|wednesday)\b(\s+\d{1,2}\.\d{1,2}\.?)?`)},
	{"Torstai", regexp.MustCompile(`(?i)\b(torstai|thursday)\b(\s+\d{1,2}\.\d{1,2}\.?)?`)},
	{"Perjantai", regexp.MustCompile(`(?i)\b(perjantai|friday)\b(\s+\d{1,2}\.\d{1,2}\.?)?`)},
	{"Lauantai", regexp.MustCompile(`(?i)\b(lauantai|saturday)\b(\s+\d{1,2}\.\d{1,2}\.?)?`)},
	{"Sunnuntai", regexp.MustCompile(`(?i)\b(sunnuntai|sunday)\b(\s+\d{1,2}\.\d{1,2}\.?)?`)},
}

// boilerplateRes match trailing legend lines, regulatory notices and
// facility announcements that upstreams append below the last day.
var boilerplateRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^[A-ZÄÖÅ]\s*=`),
	regexp.MustCompile(`(?i)(laktoositon|gluteeniton|vähälaktoosinen)\s*[,.]?\s*$`),
	regexp.MustCompile(`(?i)allergeeni`),
	regexp.MustCompile(`(?i)(eu:n|euroopan).*(asetus|regulation)`),
	regexp.MustCompile(`(?i)pidätämme oikeuden`),
	regexp.MustCompile(`(?i)(suljettu|poikkeusaukiolo|closed for)`),
	regexp.MustCompile(`(?i)(tervetuloa|welcome)[!.]?\s*$`),
	regexp.MustCompile(`(?i)lounas\s+(tarjolla|arkisin)`),
	regexp.MustCompile(`(?i)hinta\s*[:0-9]`),
}

type dayMarker struct {
	Canonical string
	Start     int
	End       int
}

// findDayMarkers returns every weekday marker in the text in position order.
func findDayMarkers(text string) []dayMarker {
	var markers []dayMarker
	for _, day := range markerDays {
		for _, loc := range day.Pattern.FindAllStringIndex(text, -1) {
			markers = append(markers, dayMarker{Canonical: day.Canonical, Start: loc[0], End: loc[1]})
		}
	}
	// Insertion sort by position; marker counts here are tiny.
	for i := 1; i < len(markers); i++ {
		for j := i; j > 0 && markers[j].Start < markers[j-1].Start; j-- {
			markers[j], markers[j-1] = markers[j-1], markers[j]
		}
	}
	return markers
}

// ExtractDayBlock slices the lines belonging to one canonical day out of
// normalized text: from the end of the day's marker line to the next
// marker of any day, with trailing boilerplate trimmed. The second return
// value lists which days were present, to make day-absent errors
// diagnosable.
func ExtractDayBlock(text, canonicalDay string) (string, []string, bool) {
	markers := findDayMarkers(text)

	var found []string
	for _, m := range markers {
		if len(found) == 0 || found[len(found)-1] != m.Canonical {
			found = append(found, m.Canonical)
		}
	}

	for i, m := range markers {
		if m.Canonical != canonicalDay {
			continue
		}
		start := m.End
		// Skip the remainder of the heading line.
		if nl := strings.IndexByte(text[start:], '\n'); nl >= 0 {
			start += nl + 1
		} else {
			start = len(text)
		}
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].Start
		}
		block := trimBoilerplate(text[start:end])
		if block == "" {
			break
		}
		return block, found, true
	}
	return "", found, false
}

// trimBoilerplate drops decoration-only and noise lines, cutting the block
// at the first trailing boilerplate line.
func trimBoilerplate(block string) string {
	var kept []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "-–—*• ")
		if line == "" {
			continue
		}
		if isBoilerplate(line) {
			break
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isBoilerplate(line string) bool {
	for _, re := range boilerplateRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// dayAbsentError formats the standard "target day missing" diagnosis.
func dayAbsentError(targetDay string, found []string) string {
	if len(found) == 0 {
		return fmt.Sprintf("no weekday markers found while looking for %s", targetDay)
	}
	return fmt.Sprintf("no menu found for %s, days present: %s", targetDay, strings.Join(found, ", "))
}

// dayNames returns the localized names a source may use for a canonical day.
func dayNames(canonical string) []string {
	return []string{canonical, weekday.EnglishLabel(canonical)}
}
