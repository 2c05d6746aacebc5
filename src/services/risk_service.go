package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugodemenez/deltalytix/backend/src/database"
	"github.com/hugodemenez/deltalytix/backend/src/engine"
	"github.com/hugodemenez/deltalytix/backend/src/logger"
	"github.com/hugodemenez/deltalytix/backend/src/models"
	"github.com/patrickmn/go-cache"
)

const ckRiskSnapshot = "risk_snapshot_user_%d_acct_%s"

type riskServiceImpl struct {
	tradeSource   func(userID int64, accountNumber string) ([]models.Trade, error)
	snapshotCache *cache.Cache
}

// NewRiskService builds the risk engine service. tradeSource decouples the
// engine from the trade store so evaluations can run against any ordered
// trade list.
func NewRiskService(tradeSource func(userID int64, accountNumber string) ([]models.Trade, error), snapshotCache *cache.Cache) RiskService {
	return &riskServiceImpl{tradeSource: tradeSource, snapshotCache: snapshotCache}
}

func (s *riskServiceImpl) UpsertAccount(cfg models.AccountConfig) error {
	var resetDate any
	if cfg.ResetDate != nil {
		resetDate = cfg.ResetDate.UTC().Format(time.RFC3339)
	}

	_, err := database.DB.Exec(`
		INSERT INTO accounts (user_id, number, starting_balance, profit_target, drawdown_threshold, trailing_drawdown, trailing_stop_profit, consistency_percentage, reset_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, number) DO UPDATE SET
			starting_balance = excluded.starting_balance,
			profit_target = excluded.profit_target,
			drawdown_threshold = excluded.drawdown_threshold,
			trailing_drawdown = excluded.trailing_drawdown,
			trailing_stop_profit = excluded.trailing_stop_profit,
			consistency_percentage = excluded.consistency_percentage,
			reset_date = excluded.reset_date,
			updated_at = CURRENT_TIMESTAMP`,
		cfg.UserID, cfg.Number, cfg.StartingBalance, cfg.ProfitTarget, cfg.DrawdownThreshold,
		cfg.TrailingDrawdown, cfg.TrailingStopProfit, cfg.ConsistencyPercentage, resetDate)
	if err != nil {
		return fmt.Errorf("error upserting account %s: %w", cfg.Number, err)
	}

	s.snapshotCache.Delete(fmt.Sprintf(ckRiskSnapshot, cfg.UserID, cfg.Number))
	return nil
}

func (s *riskServiceImpl) AddPayout(userID int64, accountNumber string, payout models.Payout) error {
	if _, err := s.GetAccount(userID, accountNumber); err != nil {
		return err
	}

	if payout.ID == "" {
		payout.ID = uuid.NewString()
	}
	if payout.Status == "" {
		payout.Status = models.PayoutPending
	}

	_, err := database.DB.Exec(`INSERT INTO payouts (id, user_id, account_number, date, amount, status) VALUES (?, ?, ?, ?, ?, ?)`,
		payout.ID, userID, accountNumber, payout.Date.UTC().Format(time.RFC3339), payout.Amount, string(payout.Status))
	if err != nil {
		return fmt.Errorf("error inserting payout for account %s: %w", accountNumber, err)
	}

	s.snapshotCache.Delete(fmt.Sprintf(ckRiskSnapshot, userID, accountNumber))
	return nil
}

func (s *riskServiceImpl) GetAccount(userID int64, accountNumber string) (*models.AccountConfig, error) {
	var cfg models.AccountConfig
	var resetDate sql.NullString
	err := database.DB.QueryRow(`
		SELECT user_id, number, starting_balance, profit_target, drawdown_threshold, trailing_drawdown, trailing_stop_profit, consistency_percentage, reset_date
		FROM accounts WHERE user_id = ? AND number = ?`, userID, accountNumber).
		Scan(&cfg.UserID, &cfg.Number, &cfg.StartingBalance, &cfg.ProfitTarget, &cfg.DrawdownThreshold,
			&cfg.TrailingDrawdown, &cfg.TrailingStopProfit, &cfg.ConsistencyPercentage, &resetDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("error querying account %s: %w", accountNumber, err)
	}

	if resetDate.Valid && resetDate.String != "" {
		if t, err := time.Parse(time.RFC3339, resetDate.String); err == nil {
			cfg.ResetDate = &t
		}
	}

	payouts, err := s.loadPayouts(userID, accountNumber)
	if err != nil {
		return nil, err
	}
	cfg.Payouts = payouts
	return &cfg, nil
}

func (s *riskServiceImpl) loadPayouts(userID int64, accountNumber string) ([]models.Payout, error) {
	rows, err := database.DB.Query(`SELECT id, date, amount, status FROM payouts WHERE user_id = ? AND account_number = ? ORDER BY date`, userID, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("error querying payouts for account %s: %w", accountNumber, err)
	}
	defer rows.Close()

	var payouts []models.Payout
	for rows.Next() {
		var p models.Payout
		var date, status string
		if err := rows.Scan(&p.ID, &date, &p.Amount, &status); err != nil {
			return nil, fmt.Errorf("error scanning payout row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, date); err == nil {
			p.Date = t
		}
		p.Status = models.PayoutStatus(status)
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

func (s *riskServiceImpl) GetSnapshot(userID int64, accountNumber string) (*models.RiskSnapshot, error) {
	cacheKey := fmt.Sprintf(ckRiskSnapshot, userID, accountNumber)
	if cached, found := s.snapshotCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for risk snapshot", "userID", userID, "account", accountNumber)
		snapshot := cached.(models.RiskSnapshot)
		return &snapshot, nil
	}

	cfg, err := s.GetAccount(userID, accountNumber)
	if err != nil {
		return nil, err
	}
	trades, err := s.tradeSource(userID, accountNumber)
	if err != nil {
		return nil, err
	}

	snapshot := engine.Evaluate(*cfg, trades)
	s.snapshotCache.Set(cacheKey, snapshot, cache.DefaultExpiration)
	return &snapshot, nil
}

func (s *riskServiceImpl) GetDailyPnl(userID int64, accountNumber string) ([]models.DailyPnl, error) {
	snapshot, err := s.GetSnapshot(userID, accountNumber)
	if err != nil {
		return nil, err
	}
	if snapshot.DailyPnl == nil {
		return []models.DailyPnl{}, nil
	}
	return snapshot.DailyPnl, nil
}

// InvalidateUserCache clears every cached snapshot for a user, forcing a full
// recomputation on the next read.
func (s *riskServiceImpl) InvalidateUserCache(userID int64) {
	rows, err := database.DB.Query(`SELECT number FROM accounts WHERE user_id = ?`, userID)
	if err != nil {
		logger.L.Warn("Could not enumerate accounts for cache invalidation", "userID", userID, "error", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			continue
		}
		s.snapshotCache.Delete(fmt.Sprintf(ckRiskSnapshot, userID, number))
	}
	logger.L.Info("Invalidated risk snapshot caches for user", "userID", userID)
}
