package engine

import (
	"testing"

	"github.com/hugodemenez/deltalytix/backend/src/models"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateConsistency(t *testing.T) {
	t.Parallel()

	cfg := models.AccountConfig{
		ProfitTarget:          1000,
		ConsistencyPercentage: 30,
	}

	t.Run("cap anchored to target while below it", func(t *testing.T) {
		t.Parallel()
		daily := []models.DailyPnl{{Date: "2025-03-03", Pnl: 200}, {Date: "2025-03-04", Pnl: 300}}
		got := EvaluateConsistency(daily, 500, cfg)
		assert.InDelta(t, 300, got.MaxAllowedDailyProfit, 1e-9)
		assert.Equal(t, models.Consistent, got.State)
		assert.InDelta(t, 300, got.HighestProfitDay, 1e-9)
	})

	t.Run("cap anchored to actual profit once target exceeded", func(t *testing.T) {
		t.Parallel()
		daily := []models.DailyPnl{{Date: "2025-03-03", Pnl: 500}, {Date: "2025-03-04", Pnl: 1500}}
		got := EvaluateConsistency(daily, 2000, cfg)
		assert.InDelta(t, 600, got.MaxAllowedDailyProfit, 1e-9)
		assert.Equal(t, models.Inconsistent, got.State)
		assert.InDelta(t, 1500, got.HighestProfitDay, 1e-9)
	})

	t.Run("violation flagged when one day exceeds the cap", func(t *testing.T) {
		t.Parallel()
		daily := []models.DailyPnl{{Date: "2025-03-03", Pnl: 400}, {Date: "2025-03-04", Pnl: 100}}
		got := EvaluateConsistency(daily, 500, cfg)
		assert.InDelta(t, 300, got.MaxAllowedDailyProfit, 1e-9)
		assert.Equal(t, models.Inconsistent, got.State)
	})

	t.Run("no profit is not evaluatable", func(t *testing.T) {
		t.Parallel()
		daily := []models.DailyPnl{{Date: "2025-03-03", Pnl: -200}}
		got := EvaluateConsistency(daily, -200, cfg)
		assert.Equal(t, models.NotEvaluatable, got.State)
	})

	t.Run("zero profit is not evaluatable", func(t *testing.T) {
		t.Parallel()
		got := EvaluateConsistency(nil, 0, cfg)
		assert.Equal(t, models.NotEvaluatable, got.State)
	})

	t.Run("unconfigured percentage disables the rule", func(t *testing.T) {
		t.Parallel()
		got := EvaluateConsistency([]models.DailyPnl{{Date: "2025-03-03", Pnl: 500}}, 500, models.AccountConfig{ProfitTarget: 1000})
		assert.Equal(t, models.NotEvaluatable, got.State)
	})

	t.Run("losing days never count as the highest profit day", func(t *testing.T) {
		t.Parallel()
		daily := []models.DailyPnl{{Date: "2025-03-03", Pnl: -500}, {Date: "2025-03-04", Pnl: 250}}
		got := EvaluateConsistency(daily, 250, cfg)
		assert.InDelta(t, 250, got.HighestProfitDay, 1e-9)
		assert.Equal(t, models.Consistent, got.State)
	})
}
