// Package textutil turns scraped HTML fragments into clean line-oriented
// menu text and derives dietary metadata from it.
package textutil

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var namedEntities = map[string]string{
	"amp": "&", "lt": "<", "gt": ">", "quot": `"`, "apos": "'",
	"nbsp": " ", "shy": "",
	"auml": "ä", "Auml": "Ä", "ouml": "ö", "Ouml": "Ö", "aring": "å", "Aring": "Å",
	"eacute": "é", "egrave": "è", "uuml": "ü", "Uuml": "Ü", "szlig": "ß",
	"ndash": "–", "mdash": "—", "hellip": "…",
	"lsquo": "'", "rsquo": "'", "ldquo": "“", "rdquo": "”",
	"laquo": "«", "raquo": "»",
	"euro": "€", "deg": "°", "sect": "§", "copy": "©", "reg": "®", "trade": "™",
	"times": "×", "frac12": "½",
}

var (
	entityRe     = regexp.MustCompile(`&(#x?[0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)
	scriptRe     = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	lineBreakRe  = regexp.MustCompile(`(?i)<br\s*/?>|</(?:p|div|li|tr|h[1-6]|ul|ol|table|section|article)>`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	codeGroupRe  = regexp.MustCompile(`[(\[]([A-Za-zÄÖÅäöå ,\-/+*]+)[)\]]`)
	codeTokenRe  = regexp.MustCompile(`^[A-ZÄÖÅ*][A-ZÄÖÅ*\-]{0,3}$`)
	codeSplitRe  = regexp.MustCompile(`[,/+\s]+`)
)

// DecodeEntities resolves named, decimal, and hexadecimal character
// references. Unknown named entities degrade to a single space rather than
// being left literal.
func DecodeEntities(s string) string {
	return entityRe.ReplaceAllStringFunc(s, func(m string) string {
		ref := m[1 : len(m)-1]
		if strings.HasPrefix(ref, "#") {
			return decodeNumeric(ref[1:])
		}
		if lit, ok := namedEntities[ref]; ok {
			return lit
		}
		return " "
	})
}

func decodeNumeric(ref string) string {
	base := 10
	if len(ref) > 1 && (ref[0] == 'x' || ref[0] == 'X') {
		base = 16
		ref = ref[1:]
	}
	n, err := strconv.ParseInt(ref, base, 32)
	if err != nil || n <= 0 {
		return " "
	}
	return string(rune(n))
}

// CleanWhitespace collapses runs of spaces and tabs, trims line edges, caps
// consecutive blank lines at one, and trims the whole string.
func CleanWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = spaceRunRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// StripMarkup is a best-effort HTML-to-text conversion: script and style
// blocks vanish with their content, line-breaking tags become newlines, all
// remaining tags are dropped, and entities are decoded. It is not a full
// HTML parser; text inside malformed markup may leak through.
func StripMarkup(html string) string {
	s := scriptRe.ReplaceAllString(html, "")
	s = styleRe.ReplaceAllString(s, "")
	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, " ")
	s = DecodeEntities(s)
	return CleanWhitespace(s)
}

// ExtractDietCodes scans bracket and paren delimited token groups on a menu
// line and returns the uppercased set of codes found, sorted for stable
// comparison. Codes are passed through verbatim: the same letter means
// different things across vendors, so no meaning is assigned here.
func ExtractDietCodes(line string) []string {
	seen := map[string]struct{}{}
	for _, group := range codeGroupRe.FindAllStringSubmatch(line, -1) {
		for _, tok := range codeSplitRe.Split(group[1], -1) {
			tok = strings.ToUpper(strings.TrimSpace(tok))
			if tok == "" || !codeTokenRe.MatchString(tok) {
				continue
			}
			seen[tok] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	codes := make([]string, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// DishType is the pipeline's own heuristic classification of a dish,
// derived from keywords in the name and independent of vendor diet codes.
type DishType string

const (
	DishVegan      DishType = "vegan"
	DishVegetarian DishType = "vegetarian"
	DishFish       DishType = "fish"
	DishMeat       DishType = "meat"
	DishUnknown    DishType = "unknown"
)

var veganWords = []string{
	"vegaani", "vegan", "härkis", "nyhtökaura", "tofu", "soija", "seitan", "falafel",
}

var vegetarianWords = []string{
	"kasvis", "vegetar", "veggie", "halloumi", "munakas", "omelette",
}

var fishWords = []string{
	"kala", "lohi", "lohta", "lohen", "seiti", "silakka", "muikku", "siika", "katkarapu",
	"tonnikala", "fish", "salmon", "tuna", "shrimp", "herring",
}

var meatWords = []string{
	"liha", "nauta", "härkä", "possu", "porsas", "sika", "kana", "broileri",
	"kalkkuna", "kebab", "pekoni", "kinkku", "makkara", "nakki", "riista", "poro",
	"beef", "pork", "chicken", "bacon", "ham", "turkey", "sausage", "meat",
}

// ClassifyDishType matches keyword lists in priority order vegan >
// vegetarian > fish > meat; first match wins. Plant classifications are
// checked first on purpose: for a combo dish, misclassifying toward the
// dietary restriction is the safer error.
func ClassifyDishType(name string) DishType {
	lower := strings.ToLower(name)
	for _, w := range veganWords {
		if strings.Contains(lower, w) {
			return DishVegan
		}
	}
	for _, w := range vegetarianWords {
		if strings.Contains(lower, w) {
			return DishVegetarian
		}
	}
	for _, w := range fishWords {
		if strings.Contains(lower, w) {
			return DishFish
		}
	}
	for _, w := range meatWords {
		if strings.Contains(lower, w) {
			return DishMeat
		}
	}
	return DishUnknown
}
