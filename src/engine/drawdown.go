package engine

import "github.com/hugodemenez/deltalytix/backend/src/models"

// DrawdownResult is the account's current loss floor and how much room
// remains above it.
type DrawdownResult struct {
	DrawdownLevel       float64
	RemainingLoss       float64
	DrawdownProgressPct float64
}

// EvaluateDrawdown computes the allowed floor for an account. A fixed
// drawdown never moves from startingBalance - threshold. A trailing drawdown
// follows the high-water mark upward (never down, since the high-water mark
// is monotonic); when a trailing stop profit is configured and reached, the
// floor locks and stops trailing further.
func EvaluateDrawdown(highestBalance, runningBalance float64, cfg models.AccountConfig) DrawdownResult {
	var level float64
	if !cfg.TrailingDrawdown {
		level = cfg.StartingBalance - cfg.DrawdownThreshold
	} else {
		profitMade := highestBalance - cfg.StartingBalance
		if profitMade < 0 {
			profitMade = 0
		}
		if cfg.TrailingStopProfit > 0 && profitMade >= cfg.TrailingStopProfit {
			level = cfg.StartingBalance + cfg.TrailingStopProfit - cfg.DrawdownThreshold
		} else {
			level = highestBalance - cfg.DrawdownThreshold
		}
	}

	remaining := runningBalance - level
	if remaining < 0 {
		remaining = 0
	}

	var progress float64
	if cfg.DrawdownThreshold > 0 {
		progress = (cfg.DrawdownThreshold - remaining) / cfg.DrawdownThreshold * 100
	}

	return DrawdownResult{
		DrawdownLevel:       level,
		RemainingLoss:       remaining,
		DrawdownProgressPct: progress,
	}
}
