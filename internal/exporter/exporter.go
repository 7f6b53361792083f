package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"bundesrat/internal/config"
	"bundesrat/internal/errors"
	"bundesrat/internal/infrastructure"
	"bundesrat/pkg/contracts/domain"
)

// Exporter writes every table in all enabled formats to the export directory
type Exporter struct {
	logger   *slog.Logger
	paths    *config.Paths
	formats  []string
	bom      bool
	csv      *CSVWriter
	workbook *Workbook
	metrics  *infrastructure.RunMetrics

	mu      sync.Mutex
	written []string
}

// New creates an exporter for the formats enabled in cfg. metrics may be nil.
func New(logger *slog.Logger, cfg *config.Config, paths *config.Paths, metrics *infrastructure.RunMetrics) *Exporter {
	e := &Exporter{
		logger:  infrastructure.WithComponent(logger, "exporter"),
		paths:   paths,
		formats: append([]string(nil), cfg.Export.Formats...),
		bom:     cfg.Export.BOMPrefix,
		csv:     NewCSVWriter(paths),
		metrics: metrics,
	}
	if cfg.HasFormat(config.FormatXLSX) {
		e.workbook = NewWorkbook(paths.WorkbookXLSX)
	}
	return e
}

// Export writes one table in every enabled format. The xlsx format only
// collects the table; it is written by Close.
func (e *Exporter) Export(ctx context.Context, t domain.Table) error {
	if err := os.MkdirAll(e.paths.ExportDir, 0755); err != nil {
		return errors.NewStorageError("failed to create export directory", err).
			WithContext("directory", e.paths.ExportDir)
	}

	for _, format := range e.formats {
		var (
			path string
			err  error
		)
		switch format {
		case config.FormatMarkdown:
			path = e.paths.GetExportPath(t.Name, "md")
			err = writeFile(path, RenderMarkdown(t))
		case config.FormatTypst:
			path = e.paths.GetExportPath(t.Name, "typ")
			err = writeFile(path, RenderTypst(t))
		case config.FormatCSV:
			path, err = e.csv.WriteTable(t, e.bom)
		case config.FormatXLSX:
			path = e.workbook.Path()
			err = e.workbook.AddTable(t)
		default:
			return errors.NewConfigError(fmt.Sprintf("unsupported export format: %s", format), nil)
		}

		if err != nil {
			e.logger.ErrorContext(ctx, "Table export failed",
				slog.String("table", t.Name),
				slog.String("format", format),
				slog.String("error", err.Error()))
			return errors.NewStorageError(fmt.Sprintf("failed to export %s as %s", t.Name, format), err).
				WithContext("path", path)
		}

		if format != config.FormatXLSX {
			e.record(path)
			e.metrics.TableExported(format)
		}
		e.logger.DebugContext(ctx, "Table exported",
			slog.String("table", t.Name),
			slog.String("format", format),
			slog.String("path", path),
			slog.Int("rows", t.Height()))
	}
	return nil
}

// Close saves the workbook if xlsx export is enabled
func (e *Exporter) Close() error {
	if e.workbook == nil {
		return nil
	}
	sheets := len(e.workbook.Sheets())
	if sheets == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(e.workbook.Path()), 0755); err != nil {
		return errors.NewStorageError("failed to create workbook directory", err)
	}
	if err := e.workbook.Save(); err != nil {
		return errors.NewStorageError("failed to write workbook", err).
			WithContext("path", e.workbook.Path())
	}
	e.record(e.workbook.Path())
	e.metrics.TableExported(config.FormatXLSX)

	e.logger.Info("Workbook written",
		slog.String("path", e.workbook.Path()),
		slog.Int("sheets", sheets))
	return nil
}

// Written returns the paths of all files written so far
func (e *Exporter) Written() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.written...)
}

func (e *Exporter) record(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.written = append(e.written, path)
}

// writeFile creates path, writes content and closes it again
func writeFile(path, content string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
