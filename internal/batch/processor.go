package batch

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trendcli/internal/dataprocessing"
	"trendcli/internal/trend"
	"trendcli/pkg/contracts/domain"
)

// Config carries the analysis parameters for one processing run.
type Config struct {
	Mode           trend.Mode
	SlopeThreshold float64
	CloseDays      int
	HeaderRows     int
	SkipRows       int
	ConceptColumn  string
	Rules          []dataprocessing.ColumnRule
}

// rules returns the configured classification rules, defaulting to the
// upstream export vocabulary.
func (c Config) rules() []dataprocessing.ColumnRule {
	if len(c.Rules) > 0 {
		return c.Rules
	}
	return dataprocessing.DefaultColumnRules
}

// Result is the classification output for one processed batch.
type Result struct {
	Name        string                          // source file display name
	Date        string                          // representative batch date, YYYY-MM-DD
	Records     []domain.BatchRecord            // one per stock, in row order
	StockData   map[string]domain.StockSeries   // code -> observation series
	Concepts    map[string]string               // code -> concept tag (this batch)
	PricePoints map[string][]domain.PricePoint  // code -> dated closes for charting
	Warnings    []string
	SkippedRows int
}

// PassedCount returns how many records passed the trend filter.
func (r *Result) PassedCount() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Passed {
			n++
		}
	}
	return n
}

// Process runs one uploaded batch through the full normalization and
// classification pipeline: header resolution, sanitization, column
// classification, batch-date selection, then per-row series building and
// trend classification.
//
// Row- and cell-level problems degrade to missing data and never fail the
// batch; only structural problems (no resolvable columns) abort it.
func Process(raw [][]string, name string, cfg Config, now time.Time) (*Result, error) {
	labels, dataRows, err := dataprocessing.ResolveHeaders(raw, cfg.HeaderRows, cfg.SkipRows)
	if err != nil {
		return nil, fmt.Errorf("resolve headers for %s: %w", name, err)
	}
	if len(labels) < dataprocessing.IdentityColumns {
		return nil, fmt.Errorf("batch %s has no identifiable columns", name)
	}

	res := &Result{
		Name:        name,
		StockData:   make(map[string]domain.StockSeries),
		Concepts:    make(map[string]string),
		PricePoints: make(map[string][]domain.PricePoint),
	}

	rows := dataprocessing.SanitizeGrid(labels, dataRows)
	priceCols, maCols := dataprocessing.ClassifyColumns(labels, cfg.rules())

	priceLabels := make([]string, len(priceCols))
	for i, idx := range priceCols {
		priceLabels[i] = labels[idx]
	}
	date, fromColumns := dataprocessing.BatchDate(priceLabels, now)
	res.Date = date
	if !fromColumns {
		warning := fmt.Sprintf("无法从列名中提取日期（文件: %s），使用当前系统日期", name)
		res.Warnings = append(res.Warnings, warning)
		slog.Warn("batch date fallback",
			slog.String("file", name),
			slog.String("date", date))
	}

	conceptCol := resolveConceptColumn(labels, cfg.ConceptColumn)
	if conceptCol < 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("批次 %s 缺少概念列，标记为 %s", date, domain.UnknownConcept))
	}

	columnDates := priceColumnDates(labels, priceCols)

	for _, row := range rows {
		code := identityCell(row, 0)
		if code == "" {
			res.SkippedRows++
			continue
		}
		stockName := identityCell(row, 1)

		if _, seen := res.Concepts[code]; !seen {
			res.Concepts[code] = conceptValue(row, conceptCol)
		}

		closes, maValues := dataprocessing.BuildSeries(row, priceCols, maCols)
		assessment := trend.Classify(closes, maValues, cfg.CloseDays, cfg.Mode, cfg.SlopeThreshold)

		res.Records = append(res.Records, domain.BatchRecord{
			Date:      date,
			Code:      code,
			Name:      stockName,
			ModeLabel: cfg.Mode.Label(),
			IsUp:      assessment.IsUp,
			Slope:     assessment.Slope,
			Passed:    assessment.Passed,
			Reasons:   assessment.Reasons,
		})
		res.StockData[code] = domain.StockSeries{
			Name:     stockName,
			Closes:   closes,
			MAValues: maValues,
		}
		res.PricePoints[code] = datedCloses(row, priceCols, columnDates, date)
	}

	slog.Info("batch processed",
		slog.String("file", name),
		slog.String("date", date),
		slog.Int("stocks", len(res.Records)),
		slog.Int("passed", res.PassedCount()),
		slog.Int("skipped_rows", res.SkippedRows))

	return res, nil
}

// identityCell reads one of the leading identity columns as a trimmed
// string. Numeric stock codes survive sanitization as numbers, so both
// representations are accepted.
func identityCell(row []dataprocessing.Value, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx].String())
}

// resolveConceptColumn finds the concept column: exact configured name
// first, then the first label containing 概念. Returns -1 when absent.
func resolveConceptColumn(labels []string, configured string) int {
	if configured != "" {
		for i, label := range labels {
			if label == configured {
				return i
			}
		}
	}
	for i, label := range labels {
		if strings.Contains(label, "概念") {
			return i
		}
	}
	return -1
}

// conceptValue reads the concept tag from a row, defaulting to 未知.
func conceptValue(row []dataprocessing.Value, conceptCol int) string {
	if conceptCol < 0 || conceptCol >= len(row) {
		return domain.UnknownConcept
	}
	v := strings.TrimSpace(row[conceptCol].String())
	if v == "" {
		return domain.UnknownConcept
	}
	return v
}

// priceColumnDates pre-parses the date token of each price column label;
// columns without a parseable token map to the zero time.
func priceColumnDates(labels []string, priceCols []int) map[int]time.Time {
	dates := make(map[int]time.Time, len(priceCols))
	for _, idx := range priceCols {
		token, ok := dataprocessing.DateToken(labels[idx])
		if !ok {
			continue
		}
		if t, ok := dataprocessing.ParseDate(token); ok {
			dates[idx] = t
		}
	}
	return dates
}

// datedCloses assembles the chartable (date, close) points for one row
// from price columns whose labels carry a parseable date. Weekend dates
// are dropped since screening exports cover trading days only.
func datedCloses(row []dataprocessing.Value, priceCols []int, columnDates map[int]time.Time, batchDate string) []domain.PricePoint {
	var points []domain.PricePoint
	for _, idx := range priceCols {
		colDate, ok := columnDates[idx]
		if !ok || idx >= len(row) {
			continue
		}
		if wd := colDate.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		f, ok := row[idx].Float()
		if !ok || f <= 0 {
			continue
		}
		points = append(points, domain.PricePoint{Date: colDate, Price: f, Batch: batchDate})
	}
	return points
}
