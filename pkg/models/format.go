package models

import "strings"

// DetectedFormat is the notation an input string was recognized as.
type DetectedFormat int

const (
	FormatUnknown DetectedFormat = iota
	FormatGeographic
	FormatUTM
	FormatMGRS
	FormatAddress
)

var formatNames = [...]string{
	FormatUnknown:    "unknown",
	FormatGeographic: "geographic",
	FormatUTM:        "utm",
	FormatMGRS:       "mgrs",
	FormatAddress:    "address",
}

func (f DetectedFormat) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return formatNames[FormatUnknown]
	}
	return formatNames[f]
}

// MarshalText lets the format travel as its name in JSON and YAML.
func (f DetectedFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseFormat maps a name back to its DetectedFormat. "gps" is accepted
// as an alias for geographic.
func ParseFormat(name string) DetectedFormat {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "geographic", "gps":
		return FormatGeographic
	case "utm":
		return FormatUTM
	case "mgrs":
		return FormatMGRS
	case "address":
		return FormatAddress
	default:
		return FormatUnknown
	}
}

// ParsedInput is the parser's hand-off to the converter. Exactly one of
// Geographic, UTM, MGRS or Text is meaningful, selected by Format.
type ParsedInput struct {
	Format     DetectedFormat
	Geographic GeographicCoordinate
	UTM        UTMCoordinate
	MGRS       string
	Text       string
}
