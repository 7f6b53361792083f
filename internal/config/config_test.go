package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, "bundesrat.csv", cfg.Sources.AdminFile)
				assert.Equal(t, "bundesrat-wikipedia-de.csv", cfg.Sources.WikipediaDEFile)
				assert.Equal(t, "bundesrat-wikipedia-es.csv", cfg.Sources.WikipediaESFile)
				assert.Equal(t, DefaultColumns(), cfg.Sources.Columns)
				assert.Equal(t, "export", cfg.Paths.ExportDir)
				assert.Equal(t, "plots", cfg.Paths.PlotsDir)
				assert.Equal(t, []string{FormatMarkdown, FormatTypst}, cfg.Export.Formats)
				assert.Equal(t, 7, cfg.Analysis.ExpectedActive)
				assert.Equal(t, 1000, cfg.Analysis.ChartWidthPx)
				assert.Equal(t, "none", cfg.Tracing.Exporter)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"BUNDESRAT_LOGGING_LEVEL":            "debug",
				"BUNDESRAT_EXPORT_FORMATS":           "markdown,XLSX",
				"BUNDESRAT_ANALYSIS_EXPECTED_ACTIVE": "6",
				"BUNDESRAT_PATHS_EXPORT_DIR":         "out",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, []string{FormatMarkdown, FormatXLSX}, cfg.Export.Formats)
				assert.Equal(t, 6, cfg.Analysis.ExpectedActive)
				assert.Equal(t, "out", cfg.Paths.ExportDir)
			},
		},
		{
			name: "yaml file fills unset values",
			file: `
logging:
  level: warn
paths:
  data_dir: data
  plots_dir: charts
export:
  formats: [typst, csv]
sources:
  columns:
    number: Nr.
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, "data", cfg.Paths.DataDir)
				assert.Equal(t, "charts", cfg.Paths.PlotsDir)
				assert.Equal(t, []string{FormatTypst, FormatCSV}, cfg.Export.Formats)
				assert.Equal(t, "Nr.", cfg.Sources.Columns.Number)
				assert.Equal(t, "Name", cfg.Sources.Columns.Name)
			},
		},
		{
			name: "yaml export and analysis settings",
			file: `
export:
  formats: [csv]
  bom_prefix: true
  workbook: custom.xlsx
analysis:
  expected_active: 0
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{FormatCSV}, cfg.Export.Formats)
				assert.True(t, cfg.Export.BOMPrefix)
				assert.Equal(t, "custom.xlsx", cfg.Export.Workbook)
				assert.Equal(t, 0, cfg.Analysis.ExpectedActive)
			},
		},
		{
			name: "yaml without analysis keeps the expected active default",
			file: "analysis:\n  chart_width_px: 800\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7, cfg.Analysis.ExpectedActive)
				assert.Equal(t, 800, cfg.Analysis.ChartWidthPx)
				assert.False(t, cfg.Export.BOMPrefix)
				assert.Equal(t, "tables.xlsx", cfg.Export.Workbook)
			},
		},
		{
			name: "env wins over yaml export settings",
			env: map[string]string{
				"BUNDESRAT_EXPORT_WORKBOOK":          "env.xlsx",
				"BUNDESRAT_ANALYSIS_EXPECTED_ACTIVE": "6",
			},
			file: "export:\n  workbook: file.xlsx\nanalysis:\n  expected_active: 0\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "env.xlsx", cfg.Export.Workbook)
				assert.Equal(t, 6, cfg.Analysis.ExpectedActive)
			},
		},
		{
			name: "env wins over yaml file",
			env:  map[string]string{"BUNDESRAT_LOGGING_LEVEL": "error"},
			file: "logging:\n  level: warn\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "error", cfg.Logging.Level)
			},
		},
		{
			name:    "unsupported export format",
			env:     map[string]string{"BUNDESRAT_EXPORT_FORMATS": "markdown,pdf"},
			wantErr: true,
		},
		{
			name:    "unsupported trace exporter",
			env:     map[string]string{"BUNDESRAT_TRACING_EXPORTER": "otlp"},
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			file:    "logging: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.file), 0644))
			}

			cfg, err := Load("")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  expected_active: 5\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Analysis.ExpectedActive)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BUNDESRAT_PATHS_PLOTS_DIR=pngs\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("BUNDESRAT_PATHS_PLOTS_DIR") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pngs", cfg.Paths.PlotsDir)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.HasFormat(FormatMarkdown))
	assert.True(t, cfg.HasFormat(FormatTypst))
	assert.False(t, cfg.HasFormat(FormatXLSX))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid default", mutate: func(c *Config) {}},
		{name: "missing source", mutate: func(c *Config) { c.Sources.WikipediaESFile = "" }, wantErr: true},
		{name: "no formats", mutate: func(c *Config) { c.Export.Formats = nil }, wantErr: true},
		{name: "negative expected active", mutate: func(c *Config) { c.Analysis.ExpectedActive = -1 }, wantErr: true},
		{name: "zero chart width", mutate: func(c *Config) { c.Analysis.ChartWidthPx = 0 }, wantErr: true},
		{name: "text logs forced to json", mutate: func(c *Config) { c.Logging.Format = "text" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "json", cfg.Logging.Format)
		})
	}
}
