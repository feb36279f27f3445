package dataprocessing

import (
	"regexp"
	"strings"
	"time"
)

// tokenPatterns match date substrings embedded in column labels, in
// priority order: delimited forms win over bare 8-digit runs.
var tokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}\.\d{1,2}\.\d{1,2}`),
	regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`),
	regexp.MustCompile(`\d{4}/\d{1,2}/\d{1,2}`),
	regexp.MustCompile(`\d{8}`),
	regexp.MustCompile(`\d{4}年\d{1,2}月\d{1,2}日`),
}

// dateLayouts are attempted in order when parsing a full date string.
// Single-digit layout verbs accept zero-padded input as well.
var dateLayouts = []string{
	"2006.1.2",
	"2006-1-2",
	"2006/1/2",
	"20060102",
	"2006年1月2日",
}

// batchDateLayouts is the narrower format order used for batch-date
// selection from price column labels.
var batchDateLayouts = []string{
	"2006.1.2",
	"2006-1-2",
	"20060102",
	"2006/1/2",
}

// DateToken scans a column label for the first embedded date substring.
// The token is returned raw, not parsed.
func DateToken(label string) (string, bool) {
	for _, pattern := range tokenPatterns {
		if match := pattern.FindString(label); match != "" {
			return match, true
		}
	}
	return "", false
}

// ParseDate parses a date string, trying each supported literal format in
// order. The first layout that parses wins.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// BatchDate derives the batch's representative date from its price column
// labels: each label's trailing underscore segment (minus any bracketed
// suffix) is parsed as a date and the maximum wins, formatted YYYY-MM-DD.
// When no label yields a date the fallback date is used and fromColumns
// is false so the caller can surface a warning.
func BatchDate(priceLabels []string, fallback time.Time) (date string, fromColumns bool) {
	var best time.Time
	for _, label := range priceLabels {
		parts := strings.Split(label, "_")
		if len(parts) < 2 {
			continue
		}
		token := parts[len(parts)-1]
		token = strings.TrimSpace(strings.SplitN(token, " [", 2)[0])
		for _, layout := range batchDateLayouts {
			t, err := time.Parse(layout, token)
			if err != nil {
				continue
			}
			if t.After(best) {
				best = t
			}
			break
		}
	}
	if best.IsZero() {
		return fallback.Format("2006-01-02"), false
	}
	return best.Format("2006-01-02"), true
}
