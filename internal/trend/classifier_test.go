package trend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_StrictUptrendPasses(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14}
	a := Classify(closes, closes, 5, ModeStrict, 1.0)

	assert.True(t, a.IsUp)
	assert.True(t, a.Passed)
	assert.Empty(t, a.Reasons)
	require.NotNil(t, a.Slope)
	assert.Greater(t, *a.Slope, 1.0)
	assert.Contains(t, a.Detail, "第2日:11.00 > 第1日:10.00 = true")
}

func TestClassify_StrictBrokenRun(t *testing.T) {
	closes := []float64{10, 11, 11, 13, 14}
	a := Classify(closes, closes, 5, ModeStrict, 1.0)

	assert.False(t, a.IsUp)
	assert.False(t, a.Passed)
	require.NotEmpty(t, a.Reasons)
	assert.Contains(t, a.Reasons[0], "= false")
	assert.Contains(t, a.Detail, "第3日:11.00 > 第2日:11.00 = false")
}

func TestClassify_InsufficientData(t *testing.T) {
	a := Classify([]float64{10, 11}, []float64{10, 11}, 5, ModeStrict, 1.0)

	assert.False(t, a.IsUp)
	assert.False(t, a.Passed)
	assert.Nil(t, a.Slope)
	assert.Equal(t, []string{"数据不足: 2/5"}, a.Reasons)
}

func TestClassify_InsufficientMAData(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14}
	a := Classify(closes, []float64{10, 11}, 5, ModeMAAbove, 1.0)

	assert.False(t, a.IsUp)
	assert.Equal(t, "数据不足: 收盘5/均线2/5", a.Detail)
}

func TestClassify_MAAbove(t *testing.T) {
	tests := []struct {
		name     string
		closes   []float64
		maValues []float64
		wantUp   bool
	}{
		{
			name:     "all above",
			closes:   []float64{10, 11, 12},
			maValues: []float64{9, 10, 11},
			wantUp:   true,
		},
		{
			name:     "equal counts as above",
			closes:   []float64{10, 11, 12},
			maValues: []float64{10, 11, 12},
			wantUp:   true,
		},
		{
			name:     "one below fails",
			closes:   []float64{10, 11, 12},
			maValues: []float64{9, 12, 11},
			wantUp:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Classify(tt.closes, tt.maValues, 3, ModeMAAbove, 0.1)
			assert.Equal(t, tt.wantUp, a.IsUp)
		})
	}
}

func TestClassify_MAAbove_PositionalWindowAlignment(t *testing.T) {
	// Series of different lengths align by taking the last closeDays of
	// each; only the trailing windows are compared.
	closes := []float64{1, 2, 10, 11, 12}
	maValues := []float64{100, 9, 10, 11}
	a := Classify(closes, maValues, 3, ModeMAAbove, 0.1)
	assert.True(t, a.IsUp)
}

func TestClassify_SlopeBelowThreshold(t *testing.T) {
	// Strictly rising but nearly flat: uptrend holds, slope filter fails.
	closes := []float64{100, 100.01, 100.02, 100.03, 100.04}
	a := Classify(closes, closes, 5, ModeStrict, 1.0)

	assert.True(t, a.IsUp)
	assert.False(t, a.Passed)
	require.NotNil(t, a.Slope)
	require.Len(t, a.Reasons, 1)
	assert.Equal(t, fmt.Sprintf("斜率过小(%.2f%%)", *a.Slope), a.Reasons[0])
}

func TestClassify_InvalidPriceGuard(t *testing.T) {
	closes := []float64{10, -1, 12}
	a := Classify(closes, closes, 3, ModeStrict, 1.0)

	assert.False(t, a.IsUp)
	assert.Equal(t, "存在无效价格(<=0)", a.Detail)
}

func TestSlopePercent_ScaleInvariant(t *testing.T) {
	small := []float64{1, 2, 3, 4, 5}
	large := []float64{100, 200, 300, 400, 500}

	s1, ok1 := slopePercent(small)
	s2, ok2 := slopePercent(large)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.InDelta(t, s1, s2, 1e-9)
}

func TestSlopePercent_Undefined(t *testing.T) {
	_, ok := slopePercent([]float64{5})
	assert.False(t, ok)

	// Zero mean makes the percentage undefined.
	_, ok = slopePercent([]float64{-1, 1})
	assert.False(t, ok)
}

func TestMode(t *testing.T) {
	assert.True(t, ModeStrict.Valid())
	assert.True(t, ModeMAAbove.Valid())
	assert.False(t, Mode("fancy").Valid())
	assert.Equal(t, "严格连续上涨", ModeStrict.Label())
	assert.Equal(t, "5日均线上", ModeMAAbove.Label())
}
