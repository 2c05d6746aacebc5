package engine

import "github.com/hugodemenez/deltalytix/backend/src/models"

// ConsistencyResult is the outcome of the single-day profit cap rule.
type ConsistencyResult struct {
	MaxAllowedDailyProfit float64
	State                 models.ConsistencyState
	HighestProfitDay      float64
}

// EvaluateConsistency applies the prop-firm consistency rule: no single day
// may account for more than the configured percentage of the base amount.
// The base is anchored to the profit target until the trader has exceeded it,
// so the cap cannot be gamed by under-targeting. Accounts with no realized
// profit have nothing to evaluate, which is reported as a distinct state
// rather than a pass or a fail.
func EvaluateConsistency(dailyPnl []models.DailyPnl, totalProfit float64, cfg models.AccountConfig) ConsistencyResult {
	var highestDay float64
	for _, d := range dailyPnl {
		if d.Pnl > highestDay {
			highestDay = d.Pnl
		}
	}

	if totalProfit <= 0 || cfg.ConsistencyPercentage <= 0 {
		return ConsistencyResult{
			State:            models.NotEvaluatable,
			HighestProfitDay: highestDay,
		}
	}

	baseAmount := totalProfit
	if totalProfit <= cfg.ProfitTarget {
		baseAmount = cfg.ProfitTarget
	}
	maxAllowed := baseAmount * cfg.ConsistencyPercentage / 100

	state := models.Consistent
	if highestDay > maxAllowed {
		state = models.Inconsistent
	}

	return ConsistencyResult{
		MaxAllowedDailyProfit: maxAllowed,
		State:                 state,
		HighestProfitDay:      highestDay,
	}
}
