package imports

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hugodemenez/deltalytix/backend/src/logger"
	"github.com/hugodemenez/deltalytix/backend/src/models"
)

// Context carries the per-import values the assembler needs to complete a
// record: the owning user, the platform key, and the account number the user
// selected in the wizard (used as a fallback when rows carry none).
type Context struct {
	UserID        int64
	Platform      string
	AccountNumber string
}

// dateLayouts are the source timestamp formats seen across platform exports,
// tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02",
	"01/02/2006",
}

// NormalizeDate converts a source timestamp into an ISO-8601 instant. Values
// that match none of the known layouts pass through unchanged so the
// acceptance filter still sees a non-empty date.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return s
}

// Assemble merges mapped rows into canonical Trade records: it infers the
// side where the source did not state one, applies the account-number
// fallback, computes the content-hash ID, and drops every record that fails
// the acceptance invariant. Row-level drops never abort the batch.
func Assemble(rows []MappedRow, ctx Context) []models.Trade {
	var trades []models.Trade
	for i, row := range rows {
		accountNumber := row.AccountNumber
		if accountNumber == "" {
			accountNumber = ctx.AccountNumber
		}
		if accountNumber == "" {
			accountNumber = defaultAccountNumber(ctx.Platform)
		}

		entryDate := NormalizeDate(row.EntryDate)
		closeDate := NormalizeDate(row.CloseDate)

		trade := models.Trade{
			UserID:         ctx.UserID,
			AccountNumber:  accountNumber,
			Instrument:     row.Instrument,
			Side:           inferSide(row, entryDate, closeDate),
			Quantity:       row.Quantity,
			EntryPrice:     row.EntryPrice,
			ClosePrice:     row.ClosePrice,
			EntryDate:      entryDate,
			CloseDate:      closeDate,
			Pnl:            row.Pnl,
			Commission:     row.Commission,
			TimeInPosition: row.TimeInPosition,
			EntryID:        row.EntryID,
			CloseID:        row.CloseID,
			Platform:       ctx.Platform,
		}
		trade.ID = TradeID(trade)

		if reason := acceptanceFailure(trade); reason != "" {
			if logger.L != nil {
				logger.L.Debug("Dropping incomplete trade record", "row", i, "reason", reason, "platform", ctx.Platform)
			}
			continue
		}
		trades = append(trades, trade)
	}
	return trades
}

// TradeID is the deterministic identifier of a trade: a plain concatenation
// of its defining fields. It is deliberately not hashed; the string itself is
// the primary key that makes re-imports idempotent.
func TradeID(t models.Trade) string {
	return fmt.Sprintf("%d%s%s%s%s%s%s%s%d",
		t.UserID,
		t.AccountNumber,
		t.Instrument,
		t.EntryDate,
		t.CloseDate,
		strconv.FormatFloat(t.Quantity, 'f', -1, 64),
		t.EntryID,
		t.CloseID,
		t.TimeInPosition,
	)
}

// inferSide resolves the trade direction. Rithmic-style B/S tokens are
// authoritative; otherwise the direction is recovered from the sign of the
// pnl and the entry/close price relationship, with a date tie-break for flat
// trades.
func inferSide(row MappedRow, entryDate, closeDate string) models.TradeSide {
	switch strings.ToUpper(strings.TrimSpace(row.SideToken)) {
	case "B":
		return models.SideLong
	case "S":
		return models.SideShort
	}
	if token := normalizeSideWord(row.SideToken); token != "" {
		return models.TradeSide(token)
	}

	entry, entryErr := strconv.ParseFloat(strings.TrimSpace(row.EntryPrice), 64)
	close_, closeErr := strconv.ParseFloat(strings.TrimSpace(row.ClosePrice), 64)
	if entryErr != nil || closeErr != nil {
		return models.SideLong
	}

	switch {
	case row.Pnl > 0:
		if entry <= close_ {
			return models.SideLong
		}
		return models.SideShort
	case row.Pnl < 0:
		if entry <= close_ {
			return models.SideShort
		}
		return models.SideLong
	default:
		if entryDate < closeDate {
			return models.SideLong
		}
		return models.SideShort
	}
}

// normalizeSideWord maps spelled-out side tokens from fixed-layout exports
// ("Buy", "SELL", "Long", "short") onto the canonical side values.
func normalizeSideWord(token string) string {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "buy", "long", "bought":
		return string(models.SideLong)
	case "sell", "short", "sold":
		return string(models.SideShort)
	}
	return ""
}

func defaultAccountNumber(platform string) string {
	return platform + "-account"
}

// acceptanceFailure checks the trade invariant and names the first violated
// requirement, or returns "" when the record is acceptable.
func acceptanceFailure(t models.Trade) string {
	switch {
	case t.AccountNumber == "":
		return "missing account number"
	case t.Instrument == "":
		return "missing instrument"
	case t.Quantity == 0:
		return "zero quantity"
	case t.EntryPrice == "" && t.ClosePrice == "":
		return "missing both entry and close price"
	case t.EntryDate == "" && t.CloseDate == "":
		return "missing both entry and close date"
	}
	return ""
}
