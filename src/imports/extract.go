package imports

import (
	"fmt"
	"strings"
)

// ExtractResult is the output of a platform extractor: one header row and the
// data rows that follow it. Downstream mapping works purely off this shape.
type ExtractResult struct {
	Headers  []string
	DataRows [][]string
}

// ExtractErrorKind distinguishes the structural failures an extractor can hit.
// A structural failure is fatal for the whole file; no partial output is
// produced.
type ExtractErrorKind string

const (
	EmptyInput           ExtractErrorKind = "EMPTY_INPUT"
	MissingSectionMarker ExtractErrorKind = "MISSING_SECTION_MARKER"
)

// ExtractError reports that an extractor could not locate the expected
// structure in a file. Row is the last row index examined, or -1 when the
// input had no rows at all.
type ExtractError struct {
	Platform string
	Row      int
	Kind     ExtractErrorKind
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %s (row %d)", e.Platform, e.Kind, e.Row)
}

// ExtractStandard treats the first non-blank row as the header (blank cells
// filtered out) and everything after it as data. Leading all-blank rows are
// skipped; a file with no non-blank rows is an empty-input failure.
func ExtractStandard(platform string, rows [][]string) (*ExtractResult, error) {
	if len(rows) == 0 {
		return nil, &ExtractError{Platform: platform, Row: -1, Kind: EmptyInput}
	}

	headerIdx := -1
	for i, row := range rows {
		if !rowIsBlank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, &ExtractError{Platform: platform, Row: len(rows) - 1, Kind: EmptyInput}
	}

	var headers []string
	for _, cell := range rows[headerIdx] {
		if strings.TrimSpace(cell) != "" {
			headers = append(headers, cell)
		}
	}

	return &ExtractResult{Headers: headers, DataRows: rows[headerIdx+1:]}, nil
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
