package dataprocessing

import (
	"fmt"
	"strings"
)

// Category classifies a resolved column for downstream series extraction.
type Category int

const (
	CategoryOther Category = iota
	CategoryPrice
	CategoryMovingAverage
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryPrice:
		return "price"
	case CategoryMovingAverage:
		return "moving_average"
	default:
		return "other"
	}
}

// ColumnRule maps label keywords to a category. Rules are evaluated in
// order; the first rule with a matching keyword wins.
type ColumnRule struct {
	Keywords []string
	Category Category
}

// DefaultColumnRules matches the upstream export vocabulary: Chinese
// screening-tool labels plus their common English counterparts.
var DefaultColumnRules = []ColumnRule{
	{Keywords: []string{"收盘价", "close"}, Category: CategoryPrice},
	{Keywords: []string{"均线", "ma"}, Category: CategoryMovingAverage},
}

// ClassifyLabel resolves a label to a category via case-insensitive
// substring matching against the rule list.
func ClassifyLabel(label string, rules []ColumnRule) Category {
	lower := strings.ToLower(label)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return rule.Category
			}
		}
	}
	return CategoryOther
}

// IdentityColumns is the number of leading columns holding stock code and
// name by export convention. They are never classified as data columns.
const IdentityColumns = 2

// ClassifyColumns splits resolved labels into price and moving-average
// column indexes, preserving original left-to-right order. The identity
// columns are skipped.
func ClassifyColumns(labels []string, rules []ColumnRule) (priceCols, maCols []int) {
	for i := IdentityColumns; i < len(labels); i++ {
		switch ClassifyLabel(labels[i], rules) {
		case CategoryPrice:
			priceCols = append(priceCols, i)
		case CategoryMovingAverage:
			maCols = append(maCols, i)
		}
	}
	return priceCols, maCols
}

// ResolveHeaders reconstructs column labels from the raw grid and returns
// them together with the data rows.
//
// With a single header row the labels are that row's trimmed values and
// data starts right after it. With multiple header rows the rows are
// forward-filled horizontally first, repairing merged cells that
// serialize as partially blank rows, and a running group prefix
// (收盘价 / 5日均线) is folded into each date-stamped sub-column label.
func ResolveHeaders(raw [][]string, headerRows, skipRows int) (labels []string, data [][]string, err error) {
	if headerRows < 1 {
		return nil, nil, fmt.Errorf("header rows must be >= 1, got %d", headerRows)
	}
	if skipRows < 0 {
		return nil, nil, fmt.Errorf("skip rows must be >= 0, got %d", skipRows)
	}

	if headerRows == 1 {
		if len(raw) <= skipRows {
			return nil, nil, fmt.Errorf("grid has %d rows, cannot skip %d", len(raw), skipRows)
		}
		header := raw[skipRows]
		labels = make([]string, len(header))
		for i, cell := range header {
			labels[i] = strings.TrimSpace(cell)
		}
		return labels, raw[skipRows+1:], nil
	}

	if len(raw) < headerRows {
		return nil, nil, fmt.Errorf("grid has %d rows, need %d header rows", len(raw), headerRows)
	}

	width := 0
	for _, row := range raw[:headerRows] {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, nil, fmt.Errorf("header rows are empty")
	}

	filled := forwardFill(raw[:headerRows], width)
	labels = mergeHeaderColumns(filled, width)

	dataStart := headerRows + skipRows
	if dataStart > len(raw) {
		dataStart = len(raw)
	}
	return labels, raw[dataStart:], nil
}

// forwardFill repairs merged header cells: a blank cell inherits the
// non-blank value to its left within the same row.
func forwardFill(headerRows [][]string, width int) [][]string {
	filled := make([][]string, len(headerRows))
	for i, row := range headerRows {
		out := make([]string, width)
		last := ""
		for j := 0; j < width; j++ {
			cell := ""
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			if cell == "" {
				cell = last
			} else {
				last = cell
			}
			out[j] = cell
		}
		filled[i] = out
	}
	return filled
}

// mergeHeaderColumns builds one label per column from the filled header
// rows. A 收盘价 or 均线 group cell sets a running prefix that binds the
// following date sub-columns; exports that mark merged children with the
// literal "undefined" get the prefix_date form, everything else joins its
// collected parts with underscores.
func mergeHeaderColumns(filled [][]string, width int) []string {
	labels := make([]string, width)
	prefix := ""
	for j := 0; j < width; j++ {
		var parts []string
		for _, row := range filled {
			if row[j] != "" {
				parts = append(parts, row[j])
			}
		}
		if len(parts) == 0 {
			labels[j] = ""
			continue
		}

		switch {
		case strings.Contains(parts[0], "收盘价"):
			prefix = "收盘价"
		case strings.Contains(parts[0], "5日均线") || strings.Contains(parts[0], "均线"):
			prefix = "5日均线"
		}

		datePart := parts[0]
		if len(parts) > 1 {
			datePart = parts[len(parts)-1]
		}

		if prefix != "" && strings.Contains(parts[0], "undefined") {
			labels[j] = prefix + "_" + datePart
		} else {
			labels[j] = strings.Trim(strings.Join(parts, "_"), "_")
		}
	}
	return labels
}
