package trend

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Classify evaluates the most recent closeDays observations of a stock's
// series against the selected uptrend predicate and slope threshold.
//
// Both input series run oldest to newest. When either series is shorter
// than closeDays the stock is classified as not up with an
// insufficient-data reason and an undefined slope; this is a normal
// outcome, not an error. Within the window, closes and moving averages
// are aligned by position.
func Classify(closes, maValues []float64, closeDays int, mode Mode, slopeThreshold float64) Assessment {
	if len(closes) < closeDays || len(maValues) < closeDays {
		detail := fmt.Sprintf("数据不足: %d/%d", len(closes), closeDays)
		if mode == ModeMAAbove && len(maValues) < closeDays {
			detail = fmt.Sprintf("数据不足: 收盘%d/均线%d/%d", len(closes), len(maValues), closeDays)
		}
		return Assessment{
			IsUp:    false,
			Detail:  detail,
			Reasons: []string{detail},
		}
	}

	window := closes[len(closes)-closeDays:]
	maWindow := maValues[len(maValues)-closeDays:]

	var isUp bool
	var detail string
	if mode == ModeMAAbove {
		isUp, detail = checkMAAbove(window, maWindow)
	} else {
		isUp, detail = checkStrict(window)
	}

	slope, slopeOK := slopePercent(window)

	var reasons []string
	if !isUp {
		reasons = append(reasons, detail)
	}
	if slopeOK && slope < slopeThreshold {
		reasons = append(reasons, fmt.Sprintf("斜率过小(%.2f%%)", slope))
	}

	a := Assessment{
		IsUp:    isUp,
		Detail:  detail,
		Passed:  isUp && slopeOK && slope >= slopeThreshold,
		Reasons: reasons,
	}
	if slopeOK {
		a.Slope = &slope
	}
	return a
}

// checkStrict verifies a strictly increasing window: every close must
// exceed the previous day's close. The trace records each comparison.
func checkStrict(window []float64) (bool, string) {
	for _, price := range window {
		if price <= 0 {
			return false, "存在无效价格(<=0)"
		}
	}
	isUp := true
	details := make([]string, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		up := window[i] > window[i-1]
		if !up {
			isUp = false
		}
		details = append(details, fmt.Sprintf("第%d日:%.2f > 第%d日:%.2f = %v", i+1, window[i], i, window[i-1], up))
	}
	return isUp, strings.Join(details, "\n")
}

// checkMAAbove verifies that every close in the window sits on or above
// its moving average, aligned by position.
func checkMAAbove(window, maWindow []float64) (bool, string) {
	for _, price := range window {
		if price <= 0 {
			return false, "存在无效价格(<=0)"
		}
	}
	isUp := true
	details := make([]string, 0, len(window))
	for i := range window {
		above := window[i] >= maWindow[i]
		if !above {
			isUp = false
		}
		details = append(details, fmt.Sprintf("第%d日: 收盘%.2f ≥ 均线%.2f = %v", i+1, window[i], maWindow[i], above))
	}
	return isUp, strings.Join(details, "\n")
}

// slopePercent fits an ordinary least squares line to the window and
// normalizes the slope coefficient to a percentage of the window mean,
// making it scale invariant. Returns false when the fit is undefined.
func slopePercent(window []float64) (float64, bool) {
	if len(window) < 2 {
		return 0, false
	}
	xs := make([]float64, len(window))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, window, nil, false)
	mean := stat.Mean(window, nil)
	if mean == 0 || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0, false
	}
	return beta / mean * 100, true
}
