package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugodemenez/deltalytix/backend/src/database"
	"github.com/hugodemenez/deltalytix/backend/src/imports"
	"github.com/hugodemenez/deltalytix/backend/src/logger"
	"github.com/hugodemenez/deltalytix/backend/src/models"
)

type importServiceImpl struct {
	riskService RiskService
}

// NewImportService wires the import pipeline. The risk service is only used
// to invalidate cached snapshots once new trades land.
func NewImportService(riskService RiskService) ImportService {
	return &importServiceImpl{riskService: riskService}
}

func (s *importServiceImpl) ProcessImport(rows [][]string, userID int64, platformKey string, mapping imports.ColumnMapping, accountNumber string) (*ImportResult, error) {
	importID := uuid.NewString()
	startTime := time.Now()
	logger.L.Info("ProcessImport START", "importID", importID, "userID", userID, "platform", platformKey, "rows", len(rows))

	platform, err := imports.GetPlatform(platformKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownPlatform, err)
	}

	extracted, err := platform.Extract(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	columnMapping := platform.Mapping
	if columnMapping == nil {
		columnMapping = mapping
	}

	mapped := imports.MapRows(extracted.Headers, extracted.DataRows, columnMapping)
	trades := imports.Assemble(mapped, imports.Context{
		UserID:        userID,
		Platform:      platform.Key,
		AccountNumber: accountNumber,
	})

	rowsDropped := len(extracted.DataRows) - len(trades)
	if len(trades) == 0 {
		logger.L.Warn("Import produced no acceptable trades", "importID", importID, "userID", userID, "dataRows", len(extracted.DataRows))
		return nil, ErrNoTradesAdded
	}

	added, duplicates, err := s.saveTrades(trades, userID)
	if err != nil {
		return nil, err
	}

	if added == 0 {
		if duplicates > 0 {
			return nil, ErrDuplicateTrades
		}
		return nil, ErrNoTradesAdded
	}

	s.riskService.InvalidateUserCache(userID)

	logger.L.Info("ProcessImport END", "importID", importID, "userID", userID,
		"added", added, "duplicates", duplicates, "dropped", rowsDropped, "duration", time.Since(startTime))
	return &ImportResult{
		ImportID:          importID,
		TradesAdded:       added,
		DuplicatesSkipped: duplicates,
		RowsDropped:       rowsDropped,
	}, nil
}

// saveTrades inserts assembled trades, relying on the UNIQUE(user_id,
// trade_id) constraint for duplicate detection so re-imports stay idempotent.
func (s *importServiceImpl) saveTrades(trades []models.Trade, userID int64) (added, duplicates int, err error) {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`INSERT INTO trades (trade_id, user_id, account_number, instrument, side, quantity, entry_price, close_price, entry_date, close_date, pnl, commission, time_in_position, entry_id, close_id, platform) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err := stmt.Exec(t.ID, userID, t.AccountNumber, t.Instrument, string(t.Side), t.Quantity,
			t.EntryPrice, t.ClosePrice, t.EntryDate, t.CloseDate, t.Pnl, t.Commission,
			t.TimeInPosition, t.EntryID, t.CloseID, t.Platform)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
				logger.L.Debug("Skipping duplicate trade on import", "userID", userID, "tradeID", t.ID)
				duplicates++
				continue
			}
			return 0, 0, fmt.Errorf("error inserting trade (ID: %s): %w", t.ID, err)
		}
		added++
	}

	if err := dbTx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("error committing trades: %w", err)
	}
	return added, duplicates, nil
}

const tradeColumns = `trade_id, user_id, account_number, instrument, side, quantity, entry_price, close_price, entry_date, close_date, pnl, commission, time_in_position, entry_id, close_id, platform`

func (s *importServiceImpl) GetTrades(userID int64) ([]models.Trade, error) {
	rows, err := database.DB.Query(`SELECT `+tradeColumns+` FROM trades WHERE user_id = ? ORDER BY entry_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying trades: %w", err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

func (s *importServiceImpl) GetTradesForAccount(userID int64, accountNumber string) ([]models.Trade, error) {
	rows, err := database.DB.Query(`SELECT `+tradeColumns+` FROM trades WHERE user_id = ? AND account_number = ? ORDER BY entry_date`, userID, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("error querying trades for account %s: %w", accountNumber, err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

func (s *importServiceImpl) DeleteAllTrades(userID int64) error {
	_, err := database.DB.Exec(`DELETE FROM trades WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("error deleting trades for user %d: %w", userID, err)
	}
	s.riskService.InvalidateUserCache(userID)
	return nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTrades(rows rowScanner) ([]models.Trade, error) {
	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var side string
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountNumber, &t.Instrument, &side, &t.Quantity,
			&t.EntryPrice, &t.ClosePrice, &t.EntryDate, &t.CloseDate, &t.Pnl, &t.Commission,
			&t.TimeInPosition, &t.EntryID, &t.CloseID, &t.Platform); err != nil {
			return nil, fmt.Errorf("error scanning trade row: %w", err)
		}
		t.Side = models.TradeSide(side)
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}
