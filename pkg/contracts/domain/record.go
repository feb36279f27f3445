package domain

import (
	"time"
)

// BatchRecord is one classification result for one stock in one batch.
// The unique key is (Date, Code); a re-upload of the same batch date
// supersedes earlier records for the same stock.
type BatchRecord struct {
	Date      string   `json:"date" validate:"required"`
	Code      string   `json:"code" validate:"required"`
	Name      string   `json:"name"`
	ModeLabel string   `json:"mode_label"`
	IsUp      bool     `json:"is_up"`
	Slope     *float64 `json:"slope,omitempty"` // percent; nil when the window lacks enough data
	Passed    bool     `json:"passed"`
	Reasons   []string `json:"reasons,omitempty"`
}

// Key returns the dedup key for history persistence.
func (r BatchRecord) Key() string {
	return r.Date + "|" + r.Code
}

// StockSeries holds the canonical oldest-to-newest observation series
// extracted for one stock from one batch.
type StockSeries struct {
	Name     string    `json:"name"`
	Closes   []float64 `json:"closes"`
	MAValues []float64 `json:"ma_values"`
}

// LatestClose returns the most recent closing price in the series.
func (s StockSeries) LatestClose() (float64, bool) {
	if len(s.Closes) == 0 {
		return 0, false
	}
	return s.Closes[len(s.Closes)-1], true
}

// TrendPoint records a single batch outcome for a stock, used to render
// multi-day pass/fail trajectories.
type TrendPoint struct {
	Date   string `json:"date"`
	Passed bool   `json:"passed"`
}

// PricePoint is a dated close observation assembled for charting, tagged
// with the batch it was extracted from.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
	Batch string    `json:"batch"`
}
