package engine

import (
	"sort"
	"time"

	"github.com/hugodemenez/deltalytix/backend/src/models"
	"github.com/hugodemenez/deltalytix/backend/src/utils"
)

// Evaluate recomputes the full risk snapshot for an account from its
// configuration and trade list. The snapshot is derived state: nothing here
// is persisted, and every call starts from the inputs alone.
func Evaluate(cfg models.AccountConfig, trades []models.Trade) models.RiskSnapshot {
	scoped := trades
	if cfg.ResetDate != nil {
		reset := cfg.ResetDate.UTC().Format(time.RFC3339)
		filtered := make([]models.Trade, 0, len(trades))
		for _, t := range trades {
			if t.EntryDate >= reset {
				filtered = append(filtered, t)
			}
		}
		scoped = filtered
	}

	balance := ReduceBalance(scoped, cfg.Payouts, cfg.StartingBalance)
	drawdown := EvaluateDrawdown(balance.HighestBalance, balance.RunningBalance, cfg)

	daily := GroupDailyPnl(scoped)
	var totalProfit float64
	for _, t := range scoped {
		totalProfit += t.Pnl - t.Commission
	}
	consistency := EvaluateConsistency(daily, totalProfit, cfg)

	var targetProgress float64
	if cfg.ProfitTarget > 0 {
		targetProgress = utils.RoundFloat(totalProfit/cfg.ProfitTarget*100, 2)
		if targetProgress < 0 {
			targetProgress = 0
		}
		if targetProgress > 100 {
			targetProgress = 100
		}
	}

	return models.RiskSnapshot{
		AccountNumber:         cfg.Number,
		RunningBalance:        utils.RoundFloat(balance.RunningBalance, 2),
		HighestBalance:        utils.RoundFloat(balance.HighestBalance, 2),
		DrawdownLevel:         utils.RoundFloat(drawdown.DrawdownLevel, 2),
		RemainingLoss:         utils.RoundFloat(drawdown.RemainingLoss, 2),
		DrawdownProgressPct:   utils.RoundFloat(drawdown.DrawdownProgressPct, 2),
		ProfitTargetProgress:  targetProgress,
		MaxAllowedDailyProfit: utils.RoundFloat(consistency.MaxAllowedDailyProfit, 2),
		Consistency:           consistency.State,
		HighestProfitDay:      utils.RoundFloat(consistency.HighestProfitDay, 2),
		TotalProfit:           utils.RoundFloat(totalProfit, 2),
		DailyPnl:              daily,
	}
}

// GroupDailyPnl aggregates net trade results (pnl minus commission) by the
// calendar day of the entry date, sorted ascending.
func GroupDailyPnl(trades []models.Trade) []models.DailyPnl {
	byDay := make(map[string]float64)
	for _, t := range trades {
		day := t.EntryDate
		if len(day) >= 10 {
			day = day[:10]
		}
		if day == "" {
			continue
		}
		byDay[day] += t.Pnl - t.Commission
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]models.DailyPnl, 0, len(days))
	for _, day := range days {
		out = append(out, models.DailyPnl{Date: day, Pnl: utils.RoundFloat(byDay[day], 2)})
	}
	return out
}
