package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStandard(t *testing.T) {
	t.Parallel()

	t.Run("header then data", func(t *testing.T) {
		t.Parallel()
		got, err := ExtractStandard("csv", [][]string{
			{"h1", "h2"},
			{"a", "b"},
			{"c", "d"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"h1", "h2"}, got.Headers)
		assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, got.DataRows)
	})

	t.Run("leading blank row is skipped", func(t *testing.T) {
		t.Parallel()
		got, err := ExtractStandard("csv", [][]string{
			{},
			{"h1", "h2"},
			{"a", "b"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"h1", "h2"}, got.Headers)
		assert.Equal(t, [][]string{{"a", "b"}}, got.DataRows)
	})

	t.Run("blank header cells are filtered", func(t *testing.T) {
		t.Parallel()
		got, err := ExtractStandard("csv", [][]string{
			{"h1", "", "h2", " "},
			{"a", "b", "c", "d"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"h1", "h2"}, got.Headers)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		_, err := ExtractStandard("csv", nil)
		var extractErr *ExtractError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, EmptyInput, extractErr.Kind)
		assert.Equal(t, "csv", extractErr.Platform)
	})

	t.Run("all blank rows", func(t *testing.T) {
		t.Parallel()
		_, err := ExtractStandard("csv", [][]string{{}, {"", ""}})
		var extractErr *ExtractError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, EmptyInput, extractErr.Kind)
	})
}

func TestExtractRithmicOrders(t *testing.T) {
	t.Parallel()

	t.Run("section marker found", func(t *testing.T) {
		t.Parallel()
		got, err := ExtractRithmicOrders("rithmic-orders", [][]string{
			{"Some preamble"},
			{"Completed Orders"},
			{"Account", "Symbol", "Qty Filled"},
			{"ACCT123456", "ESZ4", "1"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Account", "Symbol", "Qty Filled"}, got.Headers)
		assert.Equal(t, [][]string{{"ACCT123456", "ESZ4", "1"}}, got.DataRows)
	})

	t.Run("marker absent", func(t *testing.T) {
		t.Parallel()
		_, err := ExtractRithmicOrders("rithmic-orders", [][]string{
			{"Working Orders"},
			{"Account", "Symbol"},
		})
		var extractErr *ExtractError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, MissingSectionMarker, extractErr.Kind)
	})

	t.Run("marker is last row", func(t *testing.T) {
		t.Parallel()
		_, err := ExtractRithmicOrders("rithmic-orders", [][]string{
			{"Completed Orders"},
		})
		var extractErr *ExtractError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, MissingSectionMarker, extractErr.Kind)
	})
}

func TestExtractRithmicPerformance(t *testing.T) {
	t.Parallel()

	t.Run("carried account and instrument prefix data rows", func(t *testing.T) {
		t.Parallel()
		got, err := ExtractRithmicPerformance("rithmic-performance", [][]string{
			{"ACCT123456", ""},
			{"ESZ4"},
			{"Entry Order Number", "Entry Price"},
			{"1", "100.25"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"AccountNumber", "Instrument", "Entry Order Number", "Entry Price"}, got.Headers)
		require.Len(t, got.DataRows, 1)
		assert.Equal(t, []string{"ACCT123456", "ESZ4", "1", "100.25"}, got.DataRows[0])
	})

	t.Run("context switches mid file", func(t *testing.T) {
		t.Parallel()
		got, err := ExtractRithmicPerformance("rithmic-performance", [][]string{
			{"ACCT123456"},
			{"ESZ4"},
			{"Entry Order Number", "Entry Price"},
			{"1", "100.25"},
			{"NQZ4"},
			{"2", "200.50"},
		})
		require.NoError(t, err)
		require.Len(t, got.DataRows, 2)
		assert.Equal(t, []string{"ACCT123456", "ESZ4", "1", "100.25"}, got.DataRows[0])
		assert.Equal(t, []string{"ACCT123456", "NQZ4", "2", "200.50"}, got.DataRows[1])
	})

	t.Run("header captured once", func(t *testing.T) {
		t.Parallel()
		got, err := ExtractRithmicPerformance("rithmic-performance", [][]string{
			{"ACCT123456"},
			{"Entry Order Number", "Entry Price"},
			{"1", "100.25"},
			{"Entry Order Number", "Entry Price"},
			{"2", "200.50"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"AccountNumber", "Instrument", "Entry Order Number", "Entry Price"}, got.Headers)
		require.Len(t, got.DataRows, 2)
	})

	t.Run("no header section", func(t *testing.T) {
		t.Parallel()
		_, err := ExtractRithmicPerformance("rithmic-performance", [][]string{
			{"ACCT123456"},
			{"ESZ4"},
		})
		var extractErr *ExtractError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, MissingSectionMarker, extractErr.Kind)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		_, err := ExtractRithmicPerformance("rithmic-performance", nil)
		var extractErr *ExtractError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, EmptyInput, extractErr.Kind)
	})
}
