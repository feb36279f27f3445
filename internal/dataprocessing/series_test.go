package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSeries_ReversesToOldestFirst(t *testing.T) {
	// Export convention is newest first; the series must come back
	// oldest first.
	row := []Value{Number(10), Number(9), Number(8)}
	got := ExtractSeries(row, []int{0, 1, 2})
	assert.Equal(t, []float64{8, 9, 10}, got)
}

func TestExtractSeries_DropsNonPositiveAndMissing(t *testing.T) {
	row := []Value{Number(5), Missing(), Number(0), Number(-1), Number(3)}
	got := ExtractSeries(row, []int{0, 1, 2, 3, 4})
	assert.Equal(t, []float64{3, 5}, got)
}

func TestExtractSeries_TextNumbersWithSeparators(t *testing.T) {
	row := []Value{Text("1,688.00"), Text("—"), Text("1,690.50")}
	got := ExtractSeries(row, []int{0, 1, 2})
	assert.Equal(t, []float64{1690.5, 1688.0}, got)
}

func TestExtractSeries_OutOfRangeColumns(t *testing.T) {
	row := []Value{Number(1)}
	got := ExtractSeries(row, []int{0, 5, 9})
	assert.Equal(t, []float64{1}, got)
}

func TestSynthesizeMA(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, SynthesizeMA(nil))
	})

	t.Run("shorter than window", func(t *testing.T) {
		got := SynthesizeMA([]float64{2, 4})
		require.Len(t, got, 2)
		assert.InDelta(t, 2.0, got[0], 1e-9)
		assert.InDelta(t, 3.0, got[1], 1e-9)
	})

	t.Run("full window", func(t *testing.T) {
		got := SynthesizeMA([]float64{1, 2, 3, 4, 5, 6})
		require.Len(t, got, 6)
		// Leading entries average what is available so far.
		assert.InDelta(t, 1.0, got[0], 1e-9)
		assert.InDelta(t, 1.5, got[1], 1e-9)
		// From index 4 on, a true 5-day trailing mean.
		assert.InDelta(t, 3.0, got[4], 1e-9)
		assert.InDelta(t, 4.0, got[5], 1e-9)
	})
}

func TestBuildSeries_SynthesizesWhenNoMAColumns(t *testing.T) {
	row := []Value{Number(3), Number(2), Number(1)}
	closes, maValues := BuildSeries(row, []int{0, 1, 2}, nil)
	assert.Equal(t, []float64{1, 2, 3}, closes)
	require.Len(t, maValues, 3)
	assert.InDelta(t, 1.0, maValues[0], 1e-9)
	assert.InDelta(t, 2.0, maValues[2], 1e-9)
}

func TestBuildSeries_UsesRealMAColumns(t *testing.T) {
	row := []Value{Number(10), Number(9), Number(9.5), Number(8.5)}
	closes, maValues := BuildSeries(row, []int{0, 1}, []int{2, 3})
	assert.Equal(t, []float64{9, 10}, closes)
	assert.Equal(t, []float64{8.5, 9.5}, maValues)
}
