package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundesrat/internal/config"
	"bundesrat/pkg/contracts/domain"
)

// Setup test environment
func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	tempDir := t.TempDir()
	writer := NewCSVWriter(&config.Paths{
		ExportDir: filepath.Join(tempDir, "export"),
	})
	return writer, tempDir
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, path string)
	}{
		{
			name:     "relative path goes to export dir",
			filePath: "party.csv",
			options: WriteOptions{
				Headers: []string{"Party", "count"},
				Records: [][]string{{"FDP", "4"}, {"SP", "2"}},
			},
			validate: func(t *testing.T, path string) {
				content, err := os.ReadFile(filepath.Join(tempDir, "export", "party.csv"))
				require.NoError(t, err)
				assert.Equal(t, "Party,count\nFDP,4\nSP,2\n", string(content))
			},
		},
		{
			name:     "BOM prefix",
			filePath: filepath.Join(tempDir, "bom.csv"),
			options: WriteOptions{
				Headers:   []string{"Name"},
				Records:   [][]string{{"Élisabeth Baume-Schneider"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.True(t, bytes.HasPrefix(content, utf8BOM))
				assert.Contains(t, string(content), "Élisabeth Baume-Schneider")
			},
		},
		{
			name:     "quoted cells",
			filePath: filepath.Join(tempDir, "quoted.csv"),
			options: WriteOptions{
				Headers: []string{"AktiveJahre"},
				Records: [][]string{{"[1848, 1849]"}},
			},
			validate: func(t *testing.T, path string) {
				f, err := os.Open(path)
				require.NoError(t, err)
				defer f.Close()
				records, err := csv.NewReader(f).ReadAll()
				require.NoError(t, err)
				assert.Equal(t, [][]string{{"AktiveJahre"}, {"[1848, 1849]"}}, records)
			},
		},
		{
			name:     "overwrites existing file",
			filePath: filepath.Join(tempDir, "quoted.csv"),
			options: WriteOptions{
				Records: [][]string{{"x"}},
			},
			validate: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, "x\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteCSV(tt.filePath, tt.options))
			tt.validate(t, tt.filePath)
		})
	}
}

func TestCSVWriter_WriteTable(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	path, err := writer.WriteTable(domain.Table{
		Name:    "sex",
		Columns: []string{"Sex", "count"},
		Rows:    [][]string{{"M", "7"}, {"W", "3"}},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "export", "sex.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Sex,count\nM,7\nW,3\n", string(content))
}
