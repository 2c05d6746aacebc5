package imports

import "strings"

// completedOrdersMarker opens the data section of a Rithmic orders export.
// The row immediately after it is the header row.
const completedOrdersMarker = "Completed Orders"

// entryOrderNumberLabel is the first header cell of the per-instrument data
// section in a Rithmic performance export.
const entryOrderNumberLabel = "Entry Order Number"

// ExtractRithmicOrders locates the "Completed Orders" section: the row after
// the marker is the header and all remaining rows are data. A file without
// the marker (or with nothing after it) is a structural failure.
func ExtractRithmicOrders(platform string, rows [][]string) (*ExtractResult, error) {
	if len(rows) == 0 {
		return nil, &ExtractError{Platform: platform, Row: -1, Kind: EmptyInput}
	}

	for i, row := range rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) == completedOrdersMarker {
			if i+1 >= len(rows) {
				return nil, &ExtractError{Platform: platform, Row: i, Kind: MissingSectionMarker}
			}
			return &ExtractResult{Headers: rows[i+1], DataRows: rows[i+2:]}, nil
		}
	}
	return nil, &ExtractError{Platform: platform, Row: len(rows) - 1, Kind: MissingSectionMarker}
}

// perfScan is the accumulator threaded through the Rithmic performance walk.
// The export groups fills under account and instrument marker rows, so the
// current account and instrument are carried forward and prefixed onto every
// emitted data row.
type perfScan struct {
	account    string
	instrument string
	headers    []string
	data       [][]string
}

// ExtractRithmicPerformance walks a Rithmic performance export top to bottom.
// Account and instrument marker rows update the carried context; the first
// "Entry Order Number" row fixes the header (later occurrences are ignored);
// every other non-blank row after the header is emitted as a data row
// prefixed with the carried account and instrument.
//
// Rows for one file must be walked in original order; the carried context is
// what makes a fill attributable to its account.
func ExtractRithmicPerformance(platform string, rows [][]string) (*ExtractResult, error) {
	if len(rows) == 0 {
		return nil, &ExtractError{Platform: platform, Row: -1, Kind: EmptyInput}
	}

	st := perfScan{}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		first := strings.TrimSpace(row[0])

		if first == entryOrderNumberLabel {
			if st.headers == nil {
				st.headers = append([]string{"AccountNumber", "Instrument"}, row...)
			}
			continue
		}

		switch Classify(first) {
		case MarkerAccountNumber:
			st.account = first
			continue
		case MarkerInstrument:
			st.instrument = first
			continue
		case MarkerSectionHeader:
			continue
		}

		if st.headers != nil && first != "" {
			st.data = append(st.data, append([]string{st.account, st.instrument}, row...))
		}
	}

	if st.headers == nil {
		return nil, &ExtractError{Platform: platform, Row: len(rows) - 1, Kind: MissingSectionMarker}
	}
	return &ExtractResult{Headers: st.headers, DataRows: st.data}, nil
}
