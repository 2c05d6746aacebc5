package models

// TradeSide is the direction of a closed round-trip trade.
type TradeSide string

const (
	SideLong  TradeSide = "long"
	SideShort TradeSide = "short"
)

// Trade is the canonical, normalized representation of one closed trade.
// Each platform extractor/mapper is responsible for populating as many of
// these fields as possible directly from the source rows; the assembler fills
// the rest (side inference, account fallback, ID) and enforces the acceptance
// invariant before a Trade ever leaves the import pipeline.
type Trade struct {
	// ID is a deterministic concatenation of the trade's defining fields.
	// It is intentionally not hashed: the string itself is the primary key
	// used for duplicate detection on re-import.
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	Instrument    string    `json:"instrument"`
	Side          TradeSide `json:"side"`
	Quantity      float64   `json:"quantity"`
	EntryPrice    string    `json:"entry_price"`
	ClosePrice    string    `json:"close_price"`
	EntryDate     string    `json:"entry_date"` // ISO-8601 instant
	CloseDate     string    `json:"close_date"` // ISO-8601 instant
	Pnl           float64   `json:"pnl"`
	Commission    float64   `json:"commission"`
	// TimeInPosition is the holding duration in whole seconds.
	TimeInPosition int64  `json:"time_in_position"`
	EntryID        string `json:"entry_id,omitempty"`
	CloseID        string `json:"close_id,omitempty"`
	Platform       string `json:"platform"`
}

// DailyPnl is one day's aggregated realized result for an account.
type DailyPnl struct {
	Date string  `json:"date"` // YYYY-MM-DD
	Pnl  float64 `json:"pnl"`
}
