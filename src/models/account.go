package models

import "time"

// PayoutStatus is the lifecycle state of a prop-firm payout request.
// Only PAID payouts affect the running balance; the other states are
// informational.
type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "PENDING"
	PayoutValidated PayoutStatus = "VALIDATED"
	PayoutRefused   PayoutStatus = "REFUSED"
	PayoutPaid      PayoutStatus = "PAID"
)

// Payout is a withdrawal request against a prop-firm account.
type Payout struct {
	ID     string       `json:"id"`
	Date   time.Time    `json:"date"`
	Amount float64      `json:"amount"`
	Status PayoutStatus `json:"status"`
}

// AccountConfig is the prop-firm evaluation configuration for one account.
// It is written by user configuration actions and read by the risk engine.
type AccountConfig struct {
	UserID          int64   `json:"user_id"`
	Number          string  `json:"number"`
	StartingBalance float64 `json:"starting_balance"`
	ProfitTarget    float64 `json:"profit_target"`
	// DrawdownThreshold is the maximum allowed loss measured from the
	// relevant anchor (starting balance or high-water mark).
	DrawdownThreshold float64 `json:"drawdown_threshold"`
	TrailingDrawdown  bool    `json:"trailing_drawdown"`
	// TrailingStopProfit, when set (> 0), locks the trailing floor once the
	// account has made at least this much profit above the starting balance.
	TrailingStopProfit    float64    `json:"trailing_stop_profit,omitempty"`
	ConsistencyPercentage float64    `json:"consistency_percentage"`
	ResetDate             *time.Time `json:"reset_date,omitempty"`
	Payouts               []Payout   `json:"payouts,omitempty"`
}

// ConsistencyState is the tri-state outcome of the consistency rule.
// An account with no realized profit has nothing to evaluate, which is
// distinct from both passing and failing.
type ConsistencyState string

const (
	Consistent     ConsistencyState = "consistent"
	Inconsistent   ConsistencyState = "inconsistent"
	NotEvaluatable ConsistencyState = "not_evaluatable"
)

// RiskSnapshot is the derived risk state of an account. It is recomputed on
// every evaluation from AccountConfig plus the account's trades and is never
// persisted.
type RiskSnapshot struct {
	AccountNumber         string           `json:"account_number"`
	RunningBalance        float64          `json:"running_balance"`
	HighestBalance        float64          `json:"highest_balance"`
	DrawdownLevel         float64          `json:"drawdown_level"`
	RemainingLoss         float64          `json:"remaining_loss"`
	DrawdownProgressPct   float64          `json:"drawdown_progress_pct"`
	ProfitTargetProgress  float64          `json:"profit_target_progress_pct"`
	MaxAllowedDailyProfit float64          `json:"max_allowed_daily_profit"`
	Consistency           ConsistencyState `json:"consistency"`
	HighestProfitDay      float64          `json:"highest_profit_day"`
	TotalProfit           float64          `json:"total_profit"`
	DailyPnl              []DailyPnl       `json:"daily_pnl"`
}
