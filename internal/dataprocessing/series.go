package dataprocessing

import (
	"strconv"
	"strings"
)

// maWindow is the trailing-window size for synthesized moving averages.
const maWindow = 5

// numericCell extracts a float from a sanitized cell, tolerating numbers
// that survived as text: thousands separators and dash glyphs are
// stripped before parsing.
func numericCell(v Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	text, ok := v.Text()
	if !ok {
		return 0, false
	}
	cleaned := strings.NewReplacer(",", "", "—", "", "--", "").Replace(text)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ExtractSeries reads the given columns of one data row, keeping only
// strictly positive numeric values, and reverses the result so index 0 is
// the oldest observation (the export convention is newest-first).
// Missing and unparseable cells are dropped, not zero-filled; an empty
// result is valid.
func ExtractSeries(row []Value, cols []int) []float64 {
	var out []float64
	for _, idx := range cols {
		if idx >= len(row) {
			continue
		}
		f, ok := numericCell(row[idx])
		if !ok || f <= 0 {
			continue
		}
		out = append(out, f)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SynthesizeMA computes a trailing-window mean series over closes, using
// a window of min(5, len(closes)). Used when a batch carries no
// moving-average columns of its own.
func SynthesizeMA(closes []float64) []float64 {
	if len(closes) == 0 {
		return nil
	}
	w := maWindow
	if len(closes) < w {
		w = len(closes)
	}
	out := make([]float64, len(closes))
	for i := range closes {
		start := i - w + 1
		if start < 0 {
			start = 0
		}
		sum := 0.0
		for _, c := range closes[start : i+1] {
			sum += c
		}
		out[i] = sum / float64(i+1-start)
	}
	return out
}

// BuildSeries extracts the close and moving-average series for one stock
// row. When the batch resolved no moving-average columns the MA series is
// synthesized from the closes. The two series are each oldest-to-newest
// but need not have equal length when real MA columns exist; callers
// align them by window-relative position.
func BuildSeries(row []Value, priceCols, maCols []int) (closes, maValues []float64) {
	closes = ExtractSeries(row, priceCols)
	if len(maCols) > 0 {
		maValues = ExtractSeries(row, maCols)
	} else {
		maValues = SynthesizeMA(closes)
	}
	return closes, maValues
}
