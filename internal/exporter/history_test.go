package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendcli/pkg/contracts/domain"
)

func floatPtr(f float64) *float64 { return &f }

func TestMergeRecords_DedupLastWriteWins(t *testing.T) {
	existing := []domain.BatchRecord{
		{Date: "2024-01-05", Code: "600519", Passed: true},
		{Date: "2024-01-05", Code: "000001", Passed: false},
	}
	incoming := []domain.BatchRecord{
		{Date: "2024-01-05", Code: "600519", Passed: false}, // supersedes
		{Date: "2024-01-08", Code: "600519", Passed: true},  // new key
	}

	merged := MergeRecords(existing, incoming)
	require.Len(t, merged, 3)

	// Superseded record keeps its original position with updated values.
	assert.Equal(t, "600519", merged[0].Code)
	assert.Equal(t, "2024-01-05", merged[0].Date)
	assert.False(t, merged[0].Passed)

	assert.Equal(t, "000001", merged[1].Code)
	assert.Equal(t, "2024-01-08", merged[2].Date)
}

func TestMergeRecords_Empty(t *testing.T) {
	assert.Empty(t, MergeRecords(nil, nil))
	one := []domain.BatchRecord{{Date: "2024-01-05", Code: "600519"}}
	assert.Equal(t, one, MergeRecords(nil, one))
	assert.Equal(t, one, MergeRecords(one, nil))
}

func TestRecordRow(t *testing.T) {
	rec := domain.BatchRecord{
		Date:      "2024-01-05",
		Code:      "600519",
		Name:      "贵州茅台",
		ModeLabel: "严格连续上涨",
		IsUp:      true,
		Slope:     floatPtr(3.14159),
		Passed:    true,
	}
	row := RecordRow(rec)
	assert.Equal(t, []string{"2024-01-05", "600519", "贵州茅台", "严格连续上涨", "是", "3.142", "是", "-"}, row)
}

func TestRecordRow_FailureWithReasons(t *testing.T) {
	rec := domain.BatchRecord{
		Date:      "2024-01-05",
		Code:      "000001",
		Name:      "平安银行",
		ModeLabel: "严格连续上涨",
		Reasons:   []string{"数据不足: 2/5", "斜率过小(0.10%)"},
	}
	row := RecordRow(rec)
	assert.Equal(t, "否", row[4])
	assert.Equal(t, "", row[5]) // undefined slope stays blank
	assert.Equal(t, "否", row[6])
	assert.Equal(t, "数据不足: 2/5 | 斜率过小(0.10%)", row[7])
}

func TestHistoryStore_LoadMissingFile(t *testing.T) {
	store := NewHistoryStore(NewCSVWriter(t.TempDir()), "history.csv")
	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryStore_AppendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewHistoryStore(NewCSVWriter(dir), "history.csv")

	first := []domain.BatchRecord{
		{Date: "2024-01-05", Code: "600519", Name: "贵州茅台", ModeLabel: "严格连续上涨", IsUp: true, Slope: floatPtr(2.5), Passed: true},
		{Date: "2024-01-05", Code: "000001", Name: "平安银行", ModeLabel: "严格连续上涨", Reasons: []string{"数据不足: 2/5"}},
	}
	merged, err := store.Append(first)
	require.NoError(t, err)
	assert.Len(t, merged, 2)

	// The file starts with a UTF-8 BOM for Excel.
	data, err := os.ReadFile(filepath.Join(dir, "history.csv"))
	require.NoError(t, err)
	require.True(t, len(data) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])

	// A re-upload of the same date supersedes, a new date appends.
	second := []domain.BatchRecord{
		{Date: "2024-01-05", Code: "600519", Name: "贵州茅台", ModeLabel: "严格连续上涨", Passed: false, Reasons: []string{"斜率过小(0.10%)"}},
		{Date: "2024-01-08", Code: "600519", Name: "贵州茅台", ModeLabel: "严格连续上涨", IsUp: true, Slope: floatPtr(1.2), Passed: true},
	}
	merged, err = store.Append(second)
	require.NoError(t, err)
	require.Len(t, merged, 3)

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	assert.Equal(t, "600519", loaded[0].Code)
	assert.False(t, loaded[0].Passed)
	assert.Equal(t, []string{"斜率过小(0.10%)"}, loaded[0].Reasons)

	assert.Equal(t, "000001", loaded[1].Code)
	assert.Nil(t, loaded[1].Slope)

	assert.Equal(t, "2024-01-08", loaded[2].Date)
	require.NotNil(t, loaded[2].Slope)
	assert.InDelta(t, 1.2, *loaded[2].Slope, 1e-9)
	assert.True(t, loaded[2].Passed)
}

func TestHistoryStore_SkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.csv")
	content := "日期,股票代码,股票简称,判断模式,连续上涨,斜率(%),是否符合,不符合原因\n" +
		"2024-01-05,600519,贵州茅台,严格连续上涨,是,2.5,是,-\n" +
		"malformed row\n" +
		",,missing key,x,否,,否,-\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store := NewHistoryStore(NewCSVWriter(dir), "history.csv")
	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "600519", records[0].Code)
}
