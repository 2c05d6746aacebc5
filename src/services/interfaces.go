package services

import (
	"errors"

	"github.com/hugodemenez/deltalytix/backend/src/imports"
	"github.com/hugodemenez/deltalytix/backend/src/models"
)

var (
	// ErrExtractionFailed wraps structural extractor failures: the whole file
	// is rejected and no partial output is stored.
	ErrExtractionFailed = errors.New("extraction failed")
	ErrUnknownPlatform  = errors.New("unknown platform")
	// ErrDuplicateTrades is returned when every assembled trade already
	// exists for this user (error code DUPLICATE_TRADES).
	ErrDuplicateTrades = errors.New("DUPLICATE_TRADES")
	// ErrNoTradesAdded is returned when the file produced no acceptable
	// trades at all (error code NO_TRADES_ADDED).
	ErrNoTradesAdded   = errors.New("NO_TRADES_ADDED")
	ErrAccountNotFound = errors.New("account not found")
)

// ImportResult summarizes one import pass.
type ImportResult struct {
	ImportID          string `json:"import_id"`
	TradesAdded       int    `json:"trades_added"`
	DuplicatesSkipped int    `json:"duplicates_skipped"`
	RowsDropped       int    `json:"rows_dropped"`
}

// ImportService runs the normalization pipeline over raw rows and persists
// the accepted trades.
type ImportService interface {
	// ProcessImport extracts, maps, assembles and stores trades from one
	// file's rows. mapping is only consulted for the generic CSV platform;
	// accountNumber is the wizard-selected fallback account.
	ProcessImport(rows [][]string, userID int64, platformKey string, mapping imports.ColumnMapping, accountNumber string) (*ImportResult, error)
	GetTrades(userID int64) ([]models.Trade, error)
	GetTradesForAccount(userID int64, accountNumber string) ([]models.Trade, error)
	DeleteAllTrades(userID int64) error
}

// RiskService evaluates prop-firm risk state for configured accounts.
type RiskService interface {
	UpsertAccount(cfg models.AccountConfig) error
	AddPayout(userID int64, accountNumber string, payout models.Payout) error
	GetAccount(userID int64, accountNumber string) (*models.AccountConfig, error)
	GetSnapshot(userID int64, accountNumber string) (*models.RiskSnapshot, error)
	GetDailyPnl(userID int64, accountNumber string) ([]models.DailyPnl, error)
	InvalidateUserCache(userID int64)
}
