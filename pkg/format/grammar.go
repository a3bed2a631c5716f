// Package format recognizes which coordinate notation a piece of text is
// written in and parses it into the shared model types.
package format

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kass/geoconv/pkg/models"
	"golang.org/x/text/width"
)

// minAddressLength is the shortest text treated as a place name.
const minAddressLength = 2

// Grammar is one recognized spelling of a notation.
type Grammar struct {
	Name    string
	Format  models.DetectedFormat
	Pattern *regexp.Regexp

	decode func(m []string) (models.ParsedInput, error)
}

// Match reports whether the normalized text matches the grammar.
func (g Grammar) Match(s string) bool {
	return g.Pattern.MatchString(s)
}

const num = `(-?\d+\.?\d*)`

// grammars is evaluated top to bottom. MGRS comes first: it shares the
// zone+band prefix with UTM and only differs by the square letters.
// Geographic comes before UTM, and among the geographic spellings the
// field-separator forms come before the comma-as-decimal form.
var grammars = []Grammar{
	{"mgrs", models.FormatMGRS, regexp.MustCompile(`(?i)^(\d{1,2})([A-Z])\s+([A-Z]{2})\s+(\d{1,5})\s+(\d{1,5})$`), decodeMGRS},

	{"decimal-comma", models.FormatGeographic, regexp.MustCompile(`^` + num + `\s*,\s*` + num + `$`), decodeDecimal},
	{"decimal-space", models.FormatGeographic, regexp.MustCompile(`^` + num + `\s+` + num + `$`), decodeDecimal},
	{"decimal-european", models.FormatGeographic, regexp.MustCompile(`^(-?\d+,\d+)\s*[,;]\s*(-?\d+,\d+)$`), decodeEuropean},
	{"labelled", models.FormatGeographic, regexp.MustCompile(`(?i)^lat(?:itude)?:?\s*` + num + `\s*,?\s*(?:lng?|lon(?:g(?:itude)?)?):?\s*` + num + `$`), decodeDecimal},
	{"gps", models.FormatGeographic, regexp.MustCompile(`(?i)^GPS:?\s*` + num + `(?:\s*,\s*|\s+)` + num + `$`), decodeDecimal},
	{"dms", models.FormatGeographic, regexp.MustCompile(`(?i)^(\d+)[°º]\s*(\d+)['′\s]*(\d*\.?\d*)["″\s]*([NSEW])\s*,?\s*(\d+)[°º]\s*(\d+)['′\s]*(\d*\.?\d*)["″\s]*([NSEW])$`), decodeDMS},
	{"cjk", models.FormatGeographic, regexp.MustCompile(`^(?:緯度|纬度):?\s*` + num + `\s*[,、､]?\s*(?:経度|经度):?\s*` + num + `$`), decodeDecimal},

	{"utm", models.FormatUTM, regexp.MustCompile(`(?i)^(\d{1,2})([A-Z])\s+(\d{5,7})\s+(\d{6,8})$`), decodeUTM},
	{"utm-prefixed", models.FormatUTM, regexp.MustCompile(`(?i)^(?:zone|utm):?\s*(\d{1,2})([A-Z])\s+(\d{5,7})\s+(\d{6,8})$`), decodeUTM},
	{"utm-labelled", models.FormatUTM, regexp.MustCompile(`(?i)^(\d{1,2})([A-Z])\s+E:?\s*(\d{5,7})\s+N:?\s*(\d{6,8})$`), decodeUTM},
}

// Grammars returns the ordered grammar table.
func Grammars() []Grammar {
	out := make([]Grammar, len(grammars))
	copy(out, grammars)
	return out
}

// Normalize trims the text and folds full-width characters, common in CJK
// input, to their ASCII forms.
func Normalize(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}

// Classify returns the notation of the text. It never fails: anything that
// matches no grammar is an address when at least two characters long and
// unknown otherwise.
func Classify(input string) models.DetectedFormat {
	s := Normalize(input)
	if s == "" {
		return models.FormatUnknown
	}
	if g, ok := match(s); ok {
		return g.Format
	}
	if utf8.RuneCountInString(s) >= minAddressLength {
		return models.FormatAddress
	}
	return models.FormatUnknown
}

// match returns the first grammar in priority order that matches s.
func match(s string) (Grammar, bool) {
	for _, g := range grammars {
		if g.Match(s) {
			return g, true
		}
	}
	return Grammar{}, false
}
