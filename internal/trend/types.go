package trend

// Mode selects the continuous-uptrend predicate.
type Mode string

const (
	// ModeStrict requires every close in the window to exceed the
	// previous day's close.
	ModeStrict Mode = "strict"
	// ModeMAAbove requires every close in the window to sit on or above
	// its moving average.
	ModeMAAbove Mode = "ma_above"
)

// Valid reports whether the mode is one of the supported predicates.
func (m Mode) Valid() bool {
	return m == ModeStrict || m == ModeMAAbove
}

// Label returns the human-readable Chinese mode name used in reports.
func (m Mode) Label() string {
	if m == ModeMAAbove {
		return "5日均线上"
	}
	return "严格连续上涨"
}

// Assessment is the outcome of classifying one stock's series.
type Assessment struct {
	IsUp    bool     `json:"is_up"`
	Detail  string   `json:"detail"`          // per-day predicate trace for display
	Slope   *float64 `json:"slope,omitempty"` // percent of window mean; nil when undefined
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons,omitempty"`
}
