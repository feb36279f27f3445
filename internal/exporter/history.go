package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"trendcli/pkg/contracts/domain"
)

// historyHeaders is the persisted row schema, one row per (date, code).
var historyHeaders = []string{"日期", "股票代码", "股票简称", "判断模式", "连续上涨", "斜率(%)", "是否符合", "不符合原因"}

// HistoryStore persists the cross-batch trend history as CSV, merging new
// batch records into prior history with last-write-wins deduplication by
// (date, code).
type HistoryStore struct {
	writer   *CSVWriter
	filePath string
}

// NewHistoryStore creates a history store writing to filePath via the
// given CSV writer.
func NewHistoryStore(writer *CSVWriter, filePath string) *HistoryStore {
	return &HistoryStore{writer: writer, filePath: filePath}
}

// Load reads the persisted history. A missing file yields an empty
// history; individually malformed rows are skipped.
func (s *HistoryStore) Load() ([]domain.BatchRecord, error) {
	rows, err := s.writer.ReadCSV(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	var records []domain.BatchRecord
	for i, row := range rows {
		if i == 0 && isHistoryHeader(row) {
			continue
		}
		rec, ok := parseRecordRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append merges new batch records into the persisted history and writes
// the combined result back. Returns the merged history.
func (s *HistoryStore) Append(records []domain.BatchRecord) ([]domain.BatchRecord, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}
	merged := MergeRecords(existing, records)
	if err := s.save(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *HistoryStore) save(records []domain.BatchRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, RecordRow(rec))
	}
	if err := s.writer.WriteSimpleCSV(s.filePath, historyHeaders, rows); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// MergeRecords unions two record lists and deduplicates by (date, code),
// keeping the most recently written value for a conflicting key. Order is
// stable: a superseded record keeps its original position.
func MergeRecords(existing, incoming []domain.BatchRecord) []domain.BatchRecord {
	index := make(map[string]int)
	var merged []domain.BatchRecord
	for _, rec := range append(append([]domain.BatchRecord{}, existing...), incoming...) {
		key := rec.Key()
		if at, seen := index[key]; seen {
			merged[at] = rec
			continue
		}
		index[key] = len(merged)
		merged = append(merged, rec)
	}
	return merged
}

// RecordRow renders a batch record into the persisted CSV schema.
func RecordRow(rec domain.BatchRecord) []string {
	slope := ""
	if rec.Slope != nil {
		slope = strconv.FormatFloat(round3(*rec.Slope), 'f', -1, 64)
	}
	reasons := "-"
	if len(rec.Reasons) > 0 {
		reasons = strings.Join(rec.Reasons, " | ")
	}
	return []string{
		rec.Date,
		rec.Code,
		rec.Name,
		rec.ModeLabel,
		yesNo(rec.IsUp),
		slope,
		yesNo(rec.Passed),
		reasons,
	}
}

// parseRecordRow reads one persisted row back into a batch record.
func parseRecordRow(row []string) (domain.BatchRecord, bool) {
	if len(row) < len(historyHeaders) {
		return domain.BatchRecord{}, false
	}
	rec := domain.BatchRecord{
		Date:      strings.TrimSpace(row[0]),
		Code:      strings.TrimSpace(row[1]),
		Name:      strings.TrimSpace(row[2]),
		ModeLabel: strings.TrimSpace(row[3]),
		IsUp:      row[4] == "是",
		Passed:    row[6] == "是",
	}
	if rec.Date == "" || rec.Code == "" {
		return domain.BatchRecord{}, false
	}
	if slope, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64); err == nil {
		rec.Slope = &slope
	}
	if reasons := strings.TrimSpace(row[7]); reasons != "" && reasons != "-" {
		rec.Reasons = strings.Split(reasons, " | ")
	}
	return rec, true
}

func isHistoryHeader(row []string) bool {
	return len(row) > 0 && strings.TrimSpace(row[0]) == historyHeaders[0]
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}

func round3(f float64) float64 {
	return float64(int64(f*1000+sign(f)*0.5)) / 1000
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
