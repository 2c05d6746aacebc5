package engine

import (
	"testing"
	"time"

	"github.com/hugodemenez/deltalytix/backend/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupDailyPnl(t *testing.T) {
	t.Parallel()

	trades := []models.Trade{
		{EntryDate: "2025-03-04T14:30:00Z", Pnl: 100, Commission: 4},
		{EntryDate: "2025-03-04T16:00:00Z", Pnl: -30, Commission: 4},
		{EntryDate: "2025-03-03T10:00:00Z", Pnl: 50, Commission: 2},
		{EntryDate: "", Pnl: 999},
	}

	got := GroupDailyPnl(trades)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-03-03", got[0].Date)
	assert.InDelta(t, 48, got[0].Pnl, 1e-9)
	assert.Equal(t, "2025-03-04", got[1].Date)
	assert.InDelta(t, 62, got[1].Pnl, 1e-9)
}

func TestEvaluateSnapshot(t *testing.T) {
	t.Parallel()

	cfg := models.AccountConfig{
		Number:                "APEX-12345-68",
		StartingBalance:       50000,
		ProfitTarget:          3000,
		DrawdownThreshold:     2000,
		TrailingDrawdown:      true,
		ConsistencyPercentage: 30,
	}

	trades := []models.Trade{
		{EntryDate: "2025-03-03T10:00:00Z", Pnl: 800, Commission: 0},
		{EntryDate: "2025-03-04T10:00:00Z", Pnl: 400, Commission: 0},
	}

	got := Evaluate(cfg, trades)
	assert.Equal(t, "APEX-12345-68", got.AccountNumber)
	assert.InDelta(t, 51200, got.RunningBalance, 1e-9)
	assert.InDelta(t, 51200, got.HighestBalance, 1e-9)
	assert.InDelta(t, 49200, got.DrawdownLevel, 1e-9)
	assert.InDelta(t, 2000, got.RemainingLoss, 1e-9)
	assert.InDelta(t, 1200, got.TotalProfit, 1e-9)
	assert.InDelta(t, 40, got.ProfitTargetProgress, 1e-9)
	// Below target, so the cap anchors to the target: 3000 * 30% = 900.
	assert.InDelta(t, 900, got.MaxAllowedDailyProfit, 1e-9)
	assert.Equal(t, models.Consistent, got.Consistency)
	require.Len(t, got.DailyPnl, 2)
}

func TestEvaluateSnapshotResetDate(t *testing.T) {
	t.Parallel()

	reset := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	cfg := models.AccountConfig{
		Number:          "APEX-12345-68",
		StartingBalance: 50000,
		ResetDate:       &reset,
	}

	trades := []models.Trade{
		{EntryDate: "2025-03-03T10:00:00Z", Pnl: -5000},
		{EntryDate: "2025-03-05T10:00:00Z", Pnl: 300},
	}

	// Trades before the reset date are invisible to the evaluation.
	got := Evaluate(cfg, trades)
	assert.InDelta(t, 50300, got.RunningBalance, 1e-9)
	assert.InDelta(t, 300, got.TotalProfit, 1e-9)
	require.Len(t, got.DailyPnl, 1)
	assert.Equal(t, "2025-03-05", got.DailyPnl[0].Date)
}
