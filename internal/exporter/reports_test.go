package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendcli/pkg/contracts/domain"
)

func TestReportExporter_WriteBatchTrend(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir)
	exporter := NewReportExporter(writer)

	points := []domain.BatchTrendPoint{
		{Date: "2024-01-05", Total: 10, Passed: 3, PassRate: 0.3},
		{Date: "2024-01-08", Total: 8, Passed: 4, PassRate: 0.5},
	}
	require.NoError(t, exporter.WriteBatchTrend("batch_trend.csv", points))

	rows, err := writer.ReadCSV("batch_trend.csv")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"日期", "股票数量", "符合数量", "符合占比"}, rows[0])
	assert.Equal(t, []string{"2024-01-05", "10", "3", "0.3000"}, rows[1])
	assert.Equal(t, []string{"2024-01-08", "8", "4", "0.5000"}, rows[2])
}

func TestReportExporter_WriteConceptRanking(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir)
	exporter := NewReportExporter(writer)

	stats := []domain.ConceptStat{
		{Concept: "白酒", StockCount: 2, AvgGain: 12.345, MaxGain: 20.0, MinGain: 4.69},
	}
	require.NoError(t, exporter.WriteConceptRanking("concept_ranking.csv", stats))

	rows, err := writer.ReadCSV("concept_ranking.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"所属概念", "股票数量", "平均涨幅", "最高涨幅", "最低涨幅"}, rows[0])
	assert.Equal(t, []string{"白酒", "2", "12.35", "20.00", "4.69"}, rows[1])
}

func TestReportExporter_WriteLastBatch(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir)
	exporter := NewReportExporter(writer)

	records := []domain.BatchRecord{
		{Date: "2024-01-08", Code: "600519", Name: "贵州茅台", ModeLabel: "严格连续上涨", IsUp: true, Slope: floatPtr(2.0), Passed: true},
	}
	require.NoError(t, exporter.WriteLastBatch("last_batch.csv", records))

	rows, err := writer.ReadCSV("last_batch.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "600519", rows[1][1])
	assert.Equal(t, "是", rows[1][6])
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	w := NewCSVWriter("/base")
	assert.Equal(t, "/base/report.csv", w.resolvePath("report.csv"))
	assert.Equal(t, "/abs/report.csv", w.resolvePath("/abs/report.csv"))

	bare := NewCSVWriter("")
	assert.Equal(t, "report.csv", bare.resolvePath("report.csv"))
}
