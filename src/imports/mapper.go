package imports

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hugodemenez/deltalytix/backend/src/logger"
)

// Field is a canonical trade field that source columns can map onto.
type Field string

const (
	FieldAccountNumber  Field = "accountNumber"
	FieldInstrument     Field = "instrument"
	FieldEntryID        Field = "entryId"
	FieldCloseID        Field = "closeId"
	FieldQuantity       Field = "quantity"
	FieldEntryPrice     Field = "entryPrice"
	FieldClosePrice     Field = "closePrice"
	FieldEntryDate      Field = "entryDate"
	FieldCloseDate      Field = "closeDate"
	FieldPnl            Field = "pnl"
	FieldTimeInPosition Field = "timeInPosition"
	FieldSide           Field = "side"
	FieldCommission     Field = "commission"
)

// MappingRule binds one source header to a canonical field. Rules are ordered:
// when two rules could claim the same header, the earlier one wins.
type MappingRule struct {
	Header string `json:"header"`
	Field  Field  `json:"field"`
}

// ColumnMapping is the ordered set of header bindings for one import. For the
// generic CSV platform it is user supplied; fixed-layout platforms carry their
// own mapping in the platform descriptor.
type ColumnMapping []MappingRule

// MappedRow holds the typed values coerced from one data row. Prices and
// dates stay as strings here; the assembler normalizes and validates them.
type MappedRow struct {
	AccountNumber  string
	Instrument     string
	EntryID        string
	CloseID        string
	Quantity       float64
	EntryPrice     string
	ClosePrice     string
	EntryDate      string
	CloseDate      string
	Pnl            float64
	TimeInPosition int64
	SideToken      string
	Commission     float64
}

var (
	fractionalSecondsRe = regexp.MustCompile(`^\d+\.\d+$`)
	minutesRe           = regexp.MustCompile(`(\d+)min`)
	secondsRe           = regexp.MustCompile(`(\d+)sec`)
	parenNegativeRe     = regexp.MustCompile(`^\((.*)\)$`)
)

// ParsePnl parses a currency cell into a signed float. Accounting-style
// parenthesis negatives ("(123.45)") become negative values; dollar signs and
// thousands separators are stripped. Empty or unparseable input is an error:
// a silently zeroed PnL would corrupt every downstream statistic, so callers
// drop the row instead.
func ParsePnl(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty pnl value")
	}

	negative := false
	if m := parenNegativeRe.FindStringSubmatch(s); m != nil {
		negative = true
		s = m[1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable pnl value %q", raw)
	}
	if negative {
		value = -value
	}
	return value, nil
}

// ParseTimeInPosition parses a holding duration into whole seconds. Two
// formats appear in the wild: a bare fractional-seconds string ("45.7",
// rounded to the nearest second) and a composite "2min30sec" string where
// either component may be absent. Anything else yields 0.
func ParseTimeInPosition(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if fractionalSecondsRe.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return int64(math.Round(f))
	}

	var total int64
	matched := false
	if m := minutesRe.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.ParseInt(m[1], 10, 64)
		total += mins * 60
		matched = true
	}
	if m := secondsRe.FindStringSubmatch(s); m != nil {
		secs, _ := strconv.ParseInt(m[1], 10, 64)
		total += secs
		matched = true
	}
	if !matched {
		return 0
	}
	return total
}

// parseLenientFloat is the coercion for quantity and commission cells: parse
// failures are non-fatal and fall back to zero.
func parseLenientFloat(raw string, field Field) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if logger.L != nil {
			logger.L.Debug("Unparseable numeric cell, defaulting to 0", "field", string(field), "value", raw)
		}
		return 0
	}
	return value
}

// ResolveColumn finds the mapping rule claiming a header. Exact matches win
// over substring matches, and within each tier the earliest declared rule
// wins, which makes precedence deterministic even when one rule's header text
// is a substring of another's.
func ResolveColumn(header string, mapping ColumnMapping) (Field, bool) {
	h := strings.TrimSpace(header)
	for _, rule := range mapping {
		if h == rule.Header {
			return rule.Field, true
		}
	}
	for _, rule := range mapping {
		if rule.Header != "" && strings.Contains(h, rule.Header) {
			return rule.Field, true
		}
	}
	return "", false
}

// MapRows coerces each data row into a MappedRow using the column mapping.
// Row-level coercion failures never abort the file: numeric fields fall back
// to zero, while a bad pnl cell drops that row.
func MapRows(headers []string, dataRows [][]string, mapping ColumnMapping) []MappedRow {
	type binding struct {
		col   int
		field Field
	}
	var bindings []binding
	for i, header := range headers {
		if field, ok := ResolveColumn(header, mapping); ok {
			bindings = append(bindings, binding{col: i, field: field})
		}
	}

	var out []MappedRow
	for rowIdx, row := range dataRows {
		var mapped MappedRow
		dropped := false

		for _, b := range bindings {
			if b.col >= len(row) {
				continue
			}
			cell := row[b.col]

			switch b.field {
			case FieldAccountNumber:
				mapped.AccountNumber = strings.TrimSpace(cell)
			case FieldInstrument:
				mapped.Instrument = strings.TrimSpace(cell)
			case FieldEntryID:
				mapped.EntryID = strings.TrimSpace(cell)
			case FieldCloseID:
				mapped.CloseID = strings.TrimSpace(cell)
			case FieldQuantity:
				mapped.Quantity = parseLenientFloat(cell, FieldQuantity)
			case FieldEntryPrice:
				mapped.EntryPrice = strings.TrimSpace(cell)
			case FieldClosePrice:
				mapped.ClosePrice = strings.TrimSpace(cell)
			case FieldEntryDate:
				mapped.EntryDate = strings.TrimSpace(cell)
			case FieldCloseDate:
				mapped.CloseDate = strings.TrimSpace(cell)
			case FieldPnl:
				pnl, err := ParsePnl(cell)
				if err != nil {
					if logger.L != nil {
						logger.L.Debug("Dropping row with unparseable pnl", "row", rowIdx, "value", cell)
					}
					dropped = true
				} else {
					mapped.Pnl = pnl
				}
			case FieldTimeInPosition:
				mapped.TimeInPosition = ParseTimeInPosition(cell)
			case FieldSide:
				mapped.SideToken = strings.TrimSpace(cell)
			case FieldCommission:
				mapped.Commission = parseLenientFloat(cell, FieldCommission)
			}
			if dropped {
				break
			}
		}

		if !dropped {
			out = append(out, mapped)
		}
	}
	return out
}
