package dataprocessing

import (
	"strconv"
	"strings"
)

// nullMarkers are the literal cell values the upstream exports use to
// denote "no data". Any cell matching one of these becomes Missing.
var nullMarkers = map[string]struct{}{
	"-":    {},
	"--":   {},
	"—":    {},
	"空值":   {},
	"null": {},
	"None": {},
	"":     {},
	"NaN":  {},
	"nan":  {},
	"无":    {},
}

// numericHints are label keywords marking a column as numeric. Matching is
// case-insensitive substring, so "现价(元)" and "Close Price" both qualify.
var numericHints = []string{"%", "斜率", "占比", "涨", "跌", "价", "均线", "close", "price"}

type valueKind int

const (
	missingValue valueKind = iota
	numberValue
	textValue
)

// Value is a sanitized spreadsheet cell: a float, a trimmed non-empty
// string, or missing. Missing is a first-class value, not an error.
type Value struct {
	kind valueKind
	num  float64
	text string
}

// Missing returns the missing value.
func Missing() Value { return Value{kind: missingValue} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: numberValue, num: f} }

// Text returns a text value. Empty strings collapse to Missing.
func Text(s string) Value {
	if s == "" {
		return Missing()
	}
	return Value{kind: textValue, text: s}
}

// IsMissing reports whether the value carries no data.
func (v Value) IsMissing() bool { return v.kind == missingValue }

// Float returns the numeric value, if any.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == numberValue
}

// Text returns the text value, if any.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == textValue
}

// String renders the value for display and CSV output.
func (v Value) String() string {
	switch v.kind {
	case numberValue:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case textValue:
		return v.text
	default:
		return ""
	}
}

// ParseCell converts one raw cell into a sanitized value: surrounding
// whitespace is trimmed and null markers unify to Missing.
func ParseCell(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if _, isNull := nullMarkers[trimmed]; isNull {
		return Missing()
	}
	return Text(trimmed)
}

// SanitizeValue re-sanitizes a value, coercing text to a float when the
// cell belongs to a numeric column. Unparseable text in a numeric column
// becomes Missing rather than an error. The operation is idempotent.
func SanitizeValue(v Value, numeric bool) Value {
	text, ok := v.Text()
	if !ok {
		return v
	}
	text = strings.TrimSpace(text)
	if _, isNull := nullMarkers[text]; isNull {
		return Missing()
	}
	if !numeric {
		return Text(text)
	}
	cleaned := strings.ReplaceAll(text, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Missing()
	}
	return Number(f)
}

// IsNumericColumn reports whether a resolved label marks its column as
// numeric per the hint keyword list.
func IsNumericColumn(label string) bool {
	lower := strings.ToLower(label)
	for _, hint := range numericHints {
		if strings.Contains(lower, strings.ToLower(hint)) {
			return true
		}
	}
	return false
}

// SanitizeGrid sanitizes all data rows of a batch against its resolved
// labels. Numeric-hinted columns are coerced to floats; everything else
// stays trimmed text. The input rows are not modified.
func SanitizeGrid(labels []string, rows [][]string) [][]Value {
	numeric := make([]bool, len(labels))
	for i, label := range labels {
		numeric[i] = IsNumericColumn(label)
	}

	out := make([][]Value, len(rows))
	for i, row := range rows {
		cells := make([]Value, len(labels))
		for j := range labels {
			var raw string
			if j < len(row) {
				raw = row[j]
			}
			cells[j] = SanitizeValue(ParseCell(raw), numeric[j])
		}
		out[i] = cells
	}
	return out
}
