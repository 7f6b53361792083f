package exporter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundesrat/internal/config"
	"bundesrat/internal/errors"
	"bundesrat/internal/infrastructure"
	"bundesrat/pkg/contracts/domain"
)

var partyTable = domain.Table{
	Name:    "party",
	Columns: []string{"Party", "count"},
	Rows:    [][]string{{"FDP", "4"}, {"Mitte", "2"}},
}

func newTestExporter(t *testing.T, formats ...string) (*Exporter, *config.Paths, *infrastructure.RunMetrics) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Export.Formats = formats
	paths := &config.Paths{
		ExportDir:    filepath.Join(dir, "export"),
		WorkbookXLSX: filepath.Join(dir, "export", "tables.xlsx"),
	}
	metrics := infrastructure.NewRunMetrics()
	return New(nil, cfg, paths, metrics), paths, metrics
}

func TestExporter_DefaultFormats(t *testing.T) {
	exp, paths, metrics := newTestExporter(t, config.FormatMarkdown, config.FormatTypst)

	require.NoError(t, exp.Export(context.Background(), partyTable))
	require.NoError(t, exp.Close())

	md, err := os.ReadFile(filepath.Join(paths.ExportDir, "party.md"))
	require.NoError(t, err)
	assert.Equal(t, RenderMarkdown(partyTable), string(md))

	typ, err := os.ReadFile(filepath.Join(paths.ExportDir, "party.typ"))
	require.NoError(t, err)
	assert.Equal(t, RenderTypst(partyTable), string(typ))

	_, err = os.Stat(filepath.Join(paths.ExportDir, "party.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(paths.WorkbookXLSX)
	assert.True(t, os.IsNotExist(err))

	assert.Len(t, exp.Written(), 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TablesExported.WithLabelValues("markdown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TablesExported.WithLabelValues("typst")))
}

func TestExporter_AllFormats(t *testing.T) {
	exp, paths, _ := newTestExporter(t, config.FormatMarkdown, config.FormatTypst, config.FormatCSV, config.FormatXLSX)

	sexTable := domain.Table{Name: "sex", Columns: []string{"Sex", "count"}, Rows: [][]string{{"M", "7"}}}
	require.NoError(t, exp.Export(context.Background(), partyTable))
	require.NoError(t, exp.Export(context.Background(), sexTable))

	_, err := os.Stat(paths.WorkbookXLSX)
	assert.True(t, os.IsNotExist(err), "workbook is written on Close")

	require.NoError(t, exp.Close())

	for _, name := range []string{"party.md", "party.typ", "party.csv", "sex.md", "sex.typ", "sex.csv", "tables.xlsx"} {
		_, err := os.Stat(filepath.Join(paths.ExportDir, name))
		assert.NoError(t, err, name)
	}
	assert.Len(t, exp.Written(), 7)
}

func TestExporter_WriteFailure(t *testing.T) {
	exp, paths, _ := newTestExporter(t, config.FormatMarkdown)

	// a directory in place of the target file makes the write fail
	require.NoError(t, os.MkdirAll(filepath.Join(paths.ExportDir, "party.md"), 0755))

	err := exp.Export(context.Background(), partyTable)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStorage))
}

func TestExporter_CloseWithoutTables(t *testing.T) {
	exp, paths, _ := newTestExporter(t, config.FormatXLSX)
	require.NoError(t, exp.Close())
	_, err := os.Stat(paths.WorkbookXLSX)
	assert.True(t, os.IsNotExist(err))
}
