package engine

import (
	"testing"
	"time"

	"github.com/hugodemenez/deltalytix/backend/src/models"
	"github.com/stretchr/testify/assert"
)

func tradeOn(day string, pnl, commission float64) models.Trade {
	return models.Trade{
		EntryDate:  day + "T14:30:00Z",
		Pnl:        pnl,
		Commission: commission,
	}
}

func TestReduceBalance(t *testing.T) {
	t.Parallel()

	t.Run("pnl net of commission", func(t *testing.T) {
		t.Parallel()
		got := ReduceBalance([]models.Trade{
			tradeOn("2025-03-03", 100, 4),
			tradeOn("2025-03-04", -50, 4),
		}, nil, 50000)
		assert.InDelta(t, 50042, got.RunningBalance, 1e-9)
		assert.InDelta(t, 50096, got.HighestBalance, 1e-9)
	})

	t.Run("trades are ordered by entry date before folding", func(t *testing.T) {
		t.Parallel()
		// The high-water mark depends on fold order: +300 then -200 peaks at
		// 50300, the reverse order would peak at only 50100.
		got := ReduceBalance([]models.Trade{
			tradeOn("2025-03-05", -200, 0),
			tradeOn("2025-03-03", 300, 0),
		}, nil, 50000)
		assert.InDelta(t, 50100, got.RunningBalance, 1e-9)
		assert.InDelta(t, 50300, got.HighestBalance, 1e-9)
	})

	t.Run("only paid payouts reduce the balance", func(t *testing.T) {
		t.Parallel()
		payouts := []models.Payout{
			{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Amount: 1000, Status: models.PayoutPaid},
			{Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Amount: 500, Status: models.PayoutPending},
			{Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), Amount: 500, Status: models.PayoutRefused},
			{Date: time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), Amount: 500, Status: models.PayoutValidated},
		}
		got := ReduceBalance([]models.Trade{tradeOn("2025-03-03", 2000, 0)}, payouts, 50000)
		assert.InDelta(t, 51000, got.RunningBalance, 1e-9)
	})

	t.Run("payouts never lower the high-water mark", func(t *testing.T) {
		t.Parallel()
		payouts := []models.Payout{
			{Amount: 1500, Status: models.PayoutPaid},
		}
		got := ReduceBalance([]models.Trade{tradeOn("2025-03-03", 2000, 0)}, payouts, 50000)
		assert.InDelta(t, 52000, got.HighestBalance, 1e-9)
		assert.InDelta(t, 50500, got.RunningBalance, 1e-9)
	})

	t.Run("no trades", func(t *testing.T) {
		t.Parallel()
		got := ReduceBalance(nil, nil, 50000)
		assert.InDelta(t, 50000, got.RunningBalance, 1e-9)
		assert.InDelta(t, 50000, got.HighestBalance, 1e-9)
	})
}
