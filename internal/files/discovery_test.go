package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExcelFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"batch.xlsx", true},
		{"BATCH.XLSX", true},
		{"legacy.xls", true},
		{"notes.txt", false},
		{"batch.xlsx.bak", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExcelFile(tt.name))
		})
	}
}

func TestFindExcelFiles_SortedByModTime(t *testing.T) {
	dir := t.TempDir()
	newer := filepath.Join(dir, "newer.xlsx")
	older := filepath.Join(dir, "older.xlsx")
	require.NoError(t, os.WriteFile(newer, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(older, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0755))

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, base, base))
	require.NoError(t, os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)))

	found, err := NewDiscovery("").FindExcelFiles(dir)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "older.xlsx", found[0].Name)
	assert.Equal(t, "newer.xlsx", found[1].Name)
}

func TestFindExcelFiles_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery("").FindExcelFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
