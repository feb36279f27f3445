package exporter

import (
	"fmt"
	"strconv"

	"trendcli/pkg/contracts/domain"
)

// ReportExporter writes the derived cross-batch report files: the latest
// batch snapshot, the per-date market-heat trend, and the concept gain
// ranking.
type ReportExporter struct {
	writer *CSVWriter
}

// NewReportExporter creates a report exporter using the given CSV writer.
func NewReportExporter(writer *CSVWriter) *ReportExporter {
	return &ReportExporter{writer: writer}
}

// WriteLastBatch writes the latest batch's records using the history
// schema.
func (e *ReportExporter) WriteLastBatch(filePath string, records []domain.BatchRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, RecordRow(rec))
	}
	if err := e.writer.WriteSimpleCSV(filePath, historyHeaders, rows); err != nil {
		return fmt.Errorf("write last batch: %w", err)
	}
	return nil
}

// WriteBatchTrend writes the per-date pass-count summary.
func (e *ReportExporter) WriteBatchTrend(filePath string, points []domain.BatchTrendPoint) error {
	headers := []string{"日期", "股票数量", "符合数量", "符合占比"}
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.Date,
			strconv.Itoa(p.Total),
			strconv.Itoa(p.Passed),
			fmt.Sprintf("%.4f", p.PassRate),
		})
	}
	if err := e.writer.WriteSimpleCSV(filePath, headers, rows); err != nil {
		return fmt.Errorf("write batch trend: %w", err)
	}
	return nil
}

// WriteConceptRanking writes the aggregated concept gain ranking.
func (e *ReportExporter) WriteConceptRanking(filePath string, stats []domain.ConceptStat) error {
	headers := []string{"所属概念", "股票数量", "平均涨幅", "最高涨幅", "最低涨幅"}
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Concept,
			strconv.Itoa(s.StockCount),
			fmt.Sprintf("%.2f", s.AvgGain),
			fmt.Sprintf("%.2f", s.MaxGain),
			fmt.Sprintf("%.2f", s.MinGain),
		})
	}
	if err := e.writer.WriteSimpleCSV(filePath, headers, rows); err != nil {
		return fmt.Errorf("write concept ranking: %w", err)
	}
	return nil
}
