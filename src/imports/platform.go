package imports

import "fmt"

// Category groups platforms by how their data reaches the importer.
type Category string

const (
	CategoryDirectSync  Category = "direct-sync"
	CategoryCustomCSV   Category = "custom-csv"
	CategoryPlatformCSV Category = "platform-csv"
)

// Descriptor is the static binding for one supported platform: how to carve
// headers and data out of its export, and (for fixed layouts) how its columns
// map onto canonical fields. Descriptors are defined once at load time and
// never mutated.
type Descriptor struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Category Category `json:"category"`

	Extract func(rows [][]string) (*ExtractResult, error) `json:"-"`

	// Mapping is nil for the generic CSV platform, where the user builds the
	// column mapping in the import wizard.
	Mapping ColumnMapping `json:"-"`

	// SkipHeaderSelection marks platforms whose header row is located by the
	// extractor itself, so the wizard skips its header-picking step.
	SkipHeaderSelection bool `json:"skip_header_selection"`
	// RequiresAccountSelection marks platforms whose exports carry no account
	// column; the user must pick the target account before import.
	RequiresAccountSelection bool `json:"requires_account_selection"`
	// WeekendWarning marks platforms (Rithmic) whose export servers are
	// unavailable over the weekend.
	WeekendWarning bool `json:"weekend_warning"`
}

func standard(key string) func(rows [][]string) (*ExtractResult, error) {
	return func(rows [][]string) (*ExtractResult, error) {
		return ExtractStandard(key, rows)
	}
}

// rithmicPerformanceMapping matches headers by containment: the export's
// header cells carry trailing qualifiers (time zone, currency) that vary by
// account region, so substring rules are the stable binding. Rule order is
// the precedence contract when two rules could claim one header.
var rithmicPerformanceMapping = ColumnMapping{
	{Header: "AccountNumber", Field: FieldAccountNumber},
	{Header: "Instrument", Field: FieldInstrument},
	{Header: "Entry Order Number", Field: FieldEntryID},
	{Header: "Exit Order Number", Field: FieldCloseID},
	{Header: "Buy/Sell", Field: FieldSide},
	{Header: "Qty Filled", Field: FieldQuantity},
	{Header: "Entry Price", Field: FieldEntryPrice},
	{Header: "Exit Price", Field: FieldClosePrice},
	{Header: "Entry Time", Field: FieldEntryDate},
	{Header: "Exit Time", Field: FieldCloseDate},
	{Header: "Profit/Loss", Field: FieldPnl},
	{Header: "Commission", Field: FieldCommission},
	{Header: "Time In Position", Field: FieldTimeInPosition},
}

// platforms is the process-wide registry. Order is the order shown to the
// user in the import wizard.
var platforms = []Descriptor{
	{
		Key:                      "csv",
		Label:                    "Generic CSV",
		Category:                 CategoryCustomCSV,
		Extract:                  standard("csv"),
		RequiresAccountSelection: true,
	},
	{
		Key:      "quantower",
		Label:    "Quantower",
		Category: CategoryPlatformCSV,
		Extract:  standard("quantower"),
		Mapping: ColumnMapping{
			{Header: "Account", Field: FieldAccountNumber},
			{Header: "Symbol", Field: FieldInstrument},
			{Header: "Side", Field: FieldSide},
			{Header: "Quantity", Field: FieldQuantity},
			{Header: "Open price", Field: FieldEntryPrice},
			{Header: "Close price", Field: FieldClosePrice},
			{Header: "Open time", Field: FieldEntryDate},
			{Header: "Close time", Field: FieldCloseDate},
			{Header: "Gross P/L", Field: FieldPnl},
			{Header: "Fee", Field: FieldCommission},
			{Header: "Duration", Field: FieldTimeInPosition},
			{Header: "Order ID", Field: FieldEntryID},
		},
		SkipHeaderSelection: true,
	},
	{
		Key:      "tradovate",
		Label:    "Tradovate Performance",
		Category: CategoryPlatformCSV,
		Extract:  standard("tradovate"),
		Mapping: ColumnMapping{
			{Header: "symbol", Field: FieldInstrument},
			{Header: "qty", Field: FieldQuantity},
			{Header: "buyPrice", Field: FieldEntryPrice},
			{Header: "sellPrice", Field: FieldClosePrice},
			{Header: "boughtTimestamp", Field: FieldEntryDate},
			{Header: "soldTimestamp", Field: FieldCloseDate},
			{Header: "pnl", Field: FieldPnl},
			{Header: "duration", Field: FieldTimeInPosition},
		},
		SkipHeaderSelection:      true,
		RequiresAccountSelection: true,
	},
	{
		Key:      "tradingview",
		Label:    "TradingView",
		Category: CategoryPlatformCSV,
		Extract:  standard("tradingview"),
		Mapping: ColumnMapping{
			{Header: "Symbol", Field: FieldInstrument},
			{Header: "Side", Field: FieldSide},
			{Header: "Qty", Field: FieldQuantity},
			{Header: "Entry Price", Field: FieldEntryPrice},
			{Header: "Exit Price", Field: FieldClosePrice},
			{Header: "Entry Time", Field: FieldEntryDate},
			{Header: "Exit Time", Field: FieldCloseDate},
			{Header: "P&L", Field: FieldPnl},
			{Header: "Commission", Field: FieldCommission},
		},
		SkipHeaderSelection:      true,
		RequiresAccountSelection: true,
	},
	{
		Key:      "ninjatrader-performance",
		Label:    "NinjaTrader Performance",
		Category: CategoryPlatformCSV,
		Extract:  standard("ninjatrader-performance"),
		Mapping: ColumnMapping{
			{Header: "Account", Field: FieldAccountNumber},
			{Header: "Instrument", Field: FieldInstrument},
			{Header: "Market pos.", Field: FieldSide},
			{Header: "Qty", Field: FieldQuantity},
			{Header: "Entry price", Field: FieldEntryPrice},
			{Header: "Exit price", Field: FieldClosePrice},
			{Header: "Entry time", Field: FieldEntryDate},
			{Header: "Exit time", Field: FieldCloseDate},
			{Header: "Profit", Field: FieldPnl},
			{Header: "Commission", Field: FieldCommission},
			{Header: "Entry name", Field: FieldEntryID},
			{Header: "Exit name", Field: FieldCloseID},
		},
		SkipHeaderSelection: true,
	},
	{
		Key:      "topstep",
		Label:    "Topstep",
		Category: CategoryPlatformCSV,
		Extract:  standard("topstep"),
		Mapping: ColumnMapping{
			{Header: "ContractName", Field: FieldInstrument},
			{Header: "EnteredAt", Field: FieldEntryDate},
			{Header: "ExitedAt", Field: FieldCloseDate},
			{Header: "EntryPrice", Field: FieldEntryPrice},
			{Header: "ExitPrice", Field: FieldClosePrice},
			{Header: "Size", Field: FieldQuantity},
			{Header: "Type", Field: FieldSide},
			{Header: "PnL", Field: FieldPnl},
			{Header: "Fees", Field: FieldCommission},
			{Header: "Id", Field: FieldEntryID},
		},
		SkipHeaderSelection:      true,
		RequiresAccountSelection: true,
	},
	{
		Key:      "tradezella",
		Label:    "Tradezella",
		Category: CategoryPlatformCSV,
		Extract:  standard("tradezella"),
		Mapping: ColumnMapping{
			{Header: "Account Name", Field: FieldAccountNumber},
			{Header: "Symbol", Field: FieldInstrument},
			{Header: "Side", Field: FieldSide},
			{Header: "Quantity", Field: FieldQuantity},
			{Header: "Entry Price", Field: FieldEntryPrice},
			{Header: "Exit Price", Field: FieldClosePrice},
			{Header: "Open Date", Field: FieldEntryDate},
			{Header: "Close Date", Field: FieldCloseDate},
			{Header: "Net P&L", Field: FieldPnl},
			{Header: "Commission", Field: FieldCommission},
		},
		SkipHeaderSelection: true,
	},
	{
		Key:      "rithmic-orders",
		Label:    "Rithmic Orders",
		Category: CategoryPlatformCSV,
		Extract: func(rows [][]string) (*ExtractResult, error) {
			return ExtractRithmicOrders("rithmic-orders", rows)
		},
		Mapping: ColumnMapping{
			{Header: "Account", Field: FieldAccountNumber},
			{Header: "Symbol", Field: FieldInstrument},
			{Header: "Buy/Sell", Field: FieldSide},
			{Header: "Qty Filled", Field: FieldQuantity},
			{Header: "Avg Fill Price", Field: FieldEntryPrice},
			{Header: "Order Number", Field: FieldEntryID},
			{Header: "Update Time", Field: FieldEntryDate},
			{Header: "Commission Fill Rate", Field: FieldCommission},
		},
		SkipHeaderSelection: true,
		WeekendWarning:      true,
	},
	{
		Key:      "rithmic-performance",
		Label:    "Rithmic Performance",
		Category: CategoryPlatformCSV,
		Extract: func(rows [][]string) (*ExtractResult, error) {
			return ExtractRithmicPerformance("rithmic-performance", rows)
		},
		Mapping:             rithmicPerformanceMapping,
		SkipHeaderSelection: true,
		WeekendWarning:      true,
	},
	{
		// Rows streamed from the Rithmic data provider arrive in the same
		// grouped shape as a performance export, so the sync path reuses its
		// extractor and mapping.
		Key:      "rithmic-sync",
		Label:    "Rithmic Sync",
		Category: CategoryDirectSync,
		Extract: func(rows [][]string) (*ExtractResult, error) {
			return ExtractRithmicPerformance("rithmic-sync", rows)
		},
		Mapping:             rithmicPerformanceMapping,
		SkipHeaderSelection: true,
		WeekendWarning:      true,
	},
}

// GetPlatform looks a descriptor up by key.
func GetPlatform(key string) (*Descriptor, error) {
	for i := range platforms {
		if platforms[i].Key == key {
			return &platforms[i], nil
		}
	}
	return nil, fmt.Errorf("no platform available for key: %s", key)
}

// AllPlatforms returns the registry in wizard display order.
func AllPlatforms() []Descriptor {
	out := make([]Descriptor, len(platforms))
	copy(out, platforms)
	return out
}
