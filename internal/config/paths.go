package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Paths contains all the application paths.
// This is the single source of truth for ALL file paths in the application.
type Paths struct {
	DataDir   string
	ExportDir string
	PlotsDir  string
	LogsDir   string

	// Input tables
	AdminCSV       string
	WikipediaDECSV string
	WikipediaESCSV string

	// Well-known output files
	WorkbookXLSX string
	MetricsFile  string
	LogFile      string
	TraceFile    string
}

// ResolvePaths builds the Paths for a configuration. Relative directories are
// resolved against the current working directory, like the original scripts.
func ResolvePaths(cfg *Config) (*Paths, error) {
	abs := func(p string) (string, error) {
		if p == "" || filepath.IsAbs(p) {
			return p, nil
		}
		a, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path %s: %w", p, err)
		}
		return a, nil
	}

	dataDir, err := abs(cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	exportDir, err := abs(cfg.Paths.ExportDir)
	if err != nil {
		return nil, err
	}
	plotsDir, err := abs(cfg.Paths.PlotsDir)
	if err != nil {
		return nil, err
	}
	logsDir, err := abs(cfg.Paths.LogsDir)
	if err != nil {
		return nil, err
	}
	metricsFile, err := abs(cfg.Paths.MetricsFile)
	if err != nil {
		return nil, err
	}

	source := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(dataDir, name)
	}

	workbook := cfg.Export.Workbook
	if workbook == "" {
		workbook = "tables.xlsx"
	}

	p := &Paths{
		DataDir:        dataDir,
		ExportDir:      exportDir,
		PlotsDir:       plotsDir,
		LogsDir:        logsDir,
		AdminCSV:       source(cfg.Sources.AdminFile),
		WikipediaDECSV: source(cfg.Sources.WikipediaDEFile),
		WikipediaESCSV: source(cfg.Sources.WikipediaESFile),
		WorkbookXLSX:   filepath.Join(exportDir, workbook),
		MetricsFile:    metricsFile,
	}
	p.LogFile = p.GetLogPath(cfg.Logging.FilePath)
	p.TraceFile = p.GetLogPath(cfg.Tracing.FilePath)
	return p, nil
}

// OutputDirs returns the directories the run writes into
func (p *Paths) OutputDirs() []string {
	var dirs []string
	for _, dir := range []string{p.ExportDir, p.PlotsDir, p.LogsDir} {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Sources returns the three input files in load order
func (p *Paths) Sources() []string {
	return []string{p.AdminCSV, p.WikipediaDECSV, p.WikipediaESCSV}
}

// GetExportPath returns the path of an exported table file
func (p *Paths) GetExportPath(name, ext string) string {
	return filepath.Join(p.ExportDir, name+"."+strings.TrimPrefix(ext, "."))
}

// GetPlotPath returns the path of a rendered chart
func (p *Paths) GetPlotPath(filename string) string {
	return filepath.Join(p.PlotsDir, filename)
}

// GetLogPath returns the path for a log file. Absolute names are kept.
func (p *Paths) GetLogPath(filename string) string {
	if filename == "" || filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("data", p.DataDir),
			slog.String("export", p.ExportDir),
			slog.String("plots", p.PlotsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("sources",
			slog.String("admin", p.AdminCSV),
			slog.String("wikipedia_de", p.WikipediaDECSV),
			slog.String("wikipedia_es", p.WikipediaESCSV),
		),
		slog.Group("report_files",
			slog.String("workbook", p.WorkbookXLSX),
			slog.String("metrics", p.MetricsFile),
			slog.String("log", p.LogFile),
			slog.String("traces", p.TraceFile),
		))
}
