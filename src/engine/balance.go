package engine

import (
	"sort"

	"github.com/hugodemenez/deltalytix/backend/src/models"
)

// BalanceResult is the outcome of folding an account's trade history: the
// balance after all trades and paid payouts, and the trade-driven high-water
// mark.
type BalanceResult struct {
	RunningBalance float64
	HighestBalance float64
}

// ReduceBalance folds ordered trade results and payout events into a running
// balance. The high-water mark is tracked against the trade-driven balance
// only, and paid payouts are deducted once at the end: a payout is a
// withdrawal of realized profit, not a drawdown-relevant balance dip. Payouts
// in any state other than PAID never touch the balance.
func ReduceBalance(trades []models.Trade, payouts []models.Payout, startingBalance float64) BalanceResult {
	ordered := make([]models.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EntryDate < ordered[j].EntryDate
	})

	balance := startingBalance
	highest := startingBalance
	for _, t := range ordered {
		balance += t.Pnl - t.Commission
		if balance > highest {
			highest = balance
		}
	}

	for _, p := range payouts {
		if p.Status == models.PayoutPaid {
			balance -= p.Amount
		}
	}

	return BalanceResult{RunningBalance: balance, HighestBalance: highest}
}
