package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlatform(t *testing.T) {
	t.Parallel()

	t.Run("known key", func(t *testing.T) {
		t.Parallel()
		p, err := GetPlatform("rithmic-performance")
		require.NoError(t, err)
		assert.Equal(t, "rithmic-performance", p.Key)
		assert.True(t, p.WeekendWarning)
		assert.NotNil(t, p.Extract)
		assert.NotEmpty(t, p.Mapping)
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()
		_, err := GetPlatform("metatrader")
		assert.Error(t, err)
	})

	t.Run("generic csv has no fixed mapping", func(t *testing.T) {
		t.Parallel()
		p, err := GetPlatform("csv")
		require.NoError(t, err)
		assert.Nil(t, p.Mapping)
		assert.True(t, p.RequiresAccountSelection)
	})
}

func TestAllPlatforms(t *testing.T) {
	t.Parallel()

	all := AllPlatforms()
	require.GreaterOrEqual(t, len(all), 9)

	seen := make(map[string]bool)
	for _, p := range all {
		assert.False(t, seen[p.Key], "duplicate platform key %s", p.Key)
		seen[p.Key] = true
		assert.NotEmpty(t, p.Label)
		assert.NotNil(t, p.Extract)
	}
}

// TestQuantowerPipeline runs a fixed-layout export through the whole
// pipeline: extract, map, assemble.
func TestQuantowerPipeline(t *testing.T) {
	t.Parallel()

	p, err := GetPlatform("quantower")
	require.NoError(t, err)

	rows := [][]string{
		{"Account", "Symbol", "Side", "Quantity", "Open price", "Close price", "Open time", "Close time", "Gross P/L", "Fee", "Duration"},
		{"ACCT123456", "ESZ4", "Buy", "2", "5800.25", "5802.50", "2025-03-04 14:30:00", "2025-03-04 14:35:00", "$225.00", "4.50", "300.0"},
		{"ACCT123456", "NQZ4", "Sell", "1", "20100.00", "20150.00", "2025-03-04 15:00:00", "2025-03-04 15:02:00", "(100.00)", "2.25", "120.0"},
	}

	extracted, err := p.Extract(rows)
	require.NoError(t, err)
	mapped := MapRows(extracted.Headers, extracted.DataRows, p.Mapping)
	trades := Assemble(mapped, Context{UserID: 42, Platform: p.Key})

	require.Len(t, trades, 2)

	first := trades[0]
	assert.Equal(t, "ACCT123456", first.AccountNumber)
	assert.Equal(t, "ESZ4", first.Instrument)
	assert.EqualValues(t, "long", first.Side)
	assert.InDelta(t, 225.0, first.Pnl, 1e-9)
	assert.InDelta(t, 4.5, first.Commission, 1e-9)
	assert.Equal(t, int64(300), first.TimeInPosition)
	assert.Equal(t, "2025-03-04T14:30:00Z", first.EntryDate)

	second := trades[1]
	assert.EqualValues(t, "short", second.Side)
	assert.InDelta(t, -100.0, second.Pnl, 1e-9)
}

// TestRithmicPerformancePipeline covers the grouped export end to end,
// including the carried account/instrument context.
func TestRithmicPerformancePipeline(t *testing.T) {
	t.Parallel()

	p, err := GetPlatform("rithmic-performance")
	require.NoError(t, err)

	rows := [][]string{
		{"ACCT123456", ""},
		{"ESZ4"},
		{"Entry Order Number", "Exit Order Number", "Buy/Sell", "Qty Filled", "Entry Price", "Exit Price", "Entry Time", "Exit Time", "Profit/Loss", "Commission", "Time In Position"},
		{"1001", "1002", "B", "1", "5800.25", "5801.25", "2025-03-04 14:30:00", "2025-03-04 14:32:00", "$50.00", "2.10", "2min0sec"},
	}

	extracted, err := p.Extract(rows)
	require.NoError(t, err)
	mapped := MapRows(extracted.Headers, extracted.DataRows, p.Mapping)
	trades := Assemble(mapped, Context{UserID: 42, Platform: p.Key})

	require.Len(t, trades, 1)
	got := trades[0]
	assert.Equal(t, "ACCT123456", got.AccountNumber)
	assert.Equal(t, "ESZ4", got.Instrument)
	assert.EqualValues(t, "long", got.Side)
	assert.Equal(t, "1001", got.EntryID)
	assert.Equal(t, "1002", got.CloseID)
	assert.InDelta(t, 50.0, got.Pnl, 1e-9)
	assert.Equal(t, int64(120), got.TimeInPosition)
}
