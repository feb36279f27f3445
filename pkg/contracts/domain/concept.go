package domain

// UnknownConcept is the fallback tag for stocks without a usable concept cell.
const UnknownConcept = "未知"

// StockGain tracks a stock's first and last observed price across batches,
// used for period-over-period gain ranking.
type StockGain struct {
	Code       string  `json:"code"`
	Concept    string  `json:"concept"` // raw semicolon-delimited tag string
	FirstPrice float64 `json:"first_price"`
	LastPrice  float64 `json:"last_price"`
	FirstDate  string  `json:"first_date"`
	LastDate   string  `json:"last_date"`
	GainPct    float64 `json:"gain_pct"`
}

// ConceptStat aggregates gains for one concept tag across its member stocks.
type ConceptStat struct {
	Concept    string  `json:"concept"`
	StockCount int     `json:"stock_count"`
	AvgGain    float64 `json:"avg_gain"`
	MaxGain    float64 `json:"max_gain"`
	MinGain    float64 `json:"min_gain"`
}

// BatchTrendPoint summarizes one batch's market heat: how many screened
// stocks passed the trend filter on that date.
type BatchTrendPoint struct {
	Date     string  `json:"date"`
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	PassRate float64 `json:"pass_rate"`
}

// CommonStock describes a stock that appears in every processed batch.
type CommonStock struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Concept string   `json:"concept"`
	Slope   *float64 `json:"slope,omitempty"` // slope from the latest batch
}
