package imports

import (
	"regexp"
	"strings"
)

// Marker classifies the structural role of a single cell within a raw export.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerAccountNumber
	MarkerInstrument
	MarkerSectionHeader
)

var (
	instrumentRe = regexp.MustCompile(`^[A-Z]{2,4}\d{1,2}$`)
	shortCodeRe  = regexp.MustCompile(`^[A-Z]{3}\d$`)
	allDigitsRe  = regexp.MustCompile(`^\d+$`)
)

// sectionLabels are literal cells that label a section in grouped exports and
// must never be mistaken for account identifiers.
var sectionLabels = map[string]bool{
	"Account":            true,
	"Entry Order Number": true,
}

// IsAccountNumber reports whether a cell looks like an account identifier.
// Account numbers in the supported exports are long opaque strings, so the
// predicate is exclusion-based: long enough, not a contract code, not a bare
// number, not a known section label.
func IsAccountNumber(v string) bool {
	if len(v) <= 8 {
		return false
	}
	if shortCodeRe.MatchString(v) || allDigitsRe.MatchString(v) {
		return false
	}
	return !sectionLabels[v]
}

// IsInstrument reports whether a cell looks like a futures contract code,
// e.g. ESZ4 or MESZ4: two to four letters followed by one or two digits.
func IsInstrument(v string) bool {
	return instrumentRe.MatchString(v)
}

// Classify maps a cell to its structural marker. Section labels are checked
// first so that cells like "Entry Order Number" never classify as data.
func Classify(v string) Marker {
	v = strings.TrimSpace(v)
	switch {
	case sectionLabels[v]:
		return MarkerSectionHeader
	case IsInstrument(v):
		return MarkerInstrument
	case IsAccountNumber(v):
		return MarkerAccountNumber
	default:
		return MarkerNone
	}
}
