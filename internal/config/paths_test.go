package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ExportDir = filepath.Join(base, "export")
	cfg.Paths.PlotsDir = filepath.Join(base, "plots")
	cfg.Paths.LogsDir = filepath.Join(base, "logs")
	cfg.Sources.WikipediaESFile = filepath.Join(base, "elsewhere", "es.tsv")
	cfg.Tracing.FilePath = filepath.Join(base, "spans.json")

	paths, err := ResolvePaths(cfg)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "data", "bundesrat.csv"), paths.AdminCSV)
	assert.Equal(t, filepath.Join(base, "data", "bundesrat-wikipedia-de.csv"), paths.WikipediaDECSV)
	assert.Equal(t, filepath.Join(base, "elsewhere", "es.tsv"), paths.WikipediaESCSV)
	assert.Equal(t, filepath.Join(base, "export", "tables.xlsx"), paths.WorkbookXLSX)
	assert.Empty(t, paths.MetricsFile)

	assert.Equal(t, filepath.Join(base, "export", "party.md"), paths.GetExportPath("party", "md"))
	assert.Equal(t, filepath.Join(base, "export", "party.typ"), paths.GetExportPath("party", ".typ"))
	assert.Equal(t, filepath.Join(base, "plots", "kantone.png"), paths.GetPlotPath("kantone.png"))
	assert.Equal(t, filepath.Join(base, "logs", "run.log"), paths.GetLogPath("run.log"))
	assert.Equal(t, filepath.Join(base, "logs", "bundesrat.log"), paths.LogFile)
	assert.Equal(t, filepath.Join(base, "spans.json"), paths.TraceFile)
	assert.Len(t, paths.Sources(), 3)
}

func TestResolvePaths_RelativeDirs(t *testing.T) {
	paths, err := ResolvePaths(Default())
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "export"), paths.ExportDir)
	assert.Equal(t, filepath.Join(wd, "bundesrat.csv"), paths.AdminCSV)
}

func TestPaths_OutputDirs(t *testing.T) {
	base := t.TempDir()
	paths := &Paths{
		ExportDir: filepath.Join(base, "export"),
		PlotsDir:  filepath.Join(base, "plots"),
	}

	assert.Equal(t, []string{paths.ExportDir, paths.PlotsDir}, paths.OutputDirs())
}
