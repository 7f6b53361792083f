package exporter

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"bundesrat/pkg/contracts/domain"
)

// Excel limits sheet names to 31 characters
const maxSheetName = 31

var sheetNameCleaner = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// Workbook collects tables as sheets of a single xlsx file. Nothing is
// written until Save.
type Workbook struct {
	mu     sync.Mutex
	file   *excelize.File
	path   string
	sheets []string
}

// NewWorkbook creates an empty workbook that will be saved at path
func NewWorkbook(path string) *Workbook {
	return &Workbook{
		file: excelize.NewFile(),
		path: path,
	}
}

// Path returns where the workbook is saved
func (w *Workbook) Path() string {
	return w.path
}

// Sheets returns the sheet names in insertion order
func (w *Workbook) Sheets() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.sheets...)
}

// AddTable writes a table into a new sheet named after it. Number cells are
// stored as numbers.
func (w *Workbook) AddTable(t domain.Table) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	sheet := w.sheetName(t.Name)
	if len(w.sheets) == 0 {
		if err := w.file.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to rename default sheet: %w", err)
		}
	} else if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	w.sheets = append(w.sheets, sheet)

	for i, header := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := w.file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %s: %w", header, err)
		}
	}

	for r, row := range t.Rows {
		for c := range t.Columns {
			value := cellAt(row, c)
			if value == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := w.file.SetCellValue(sheet, cell, cellValue(value)); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

// Save writes the workbook to disk and releases it
func (w *Workbook) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return w.file.Close()
}

// sheetName derives a unique valid sheet name from a table name
func (w *Workbook) sheetName(name string) string {
	base := sheetNameCleaner.Replace(name)
	if base == "" {
		base = "table"
	}
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}

	candidate := base
	for n := 2; w.hasSheet(candidate); n++ {
		suffix := "_" + strconv.Itoa(n)
		if len(base)+len(suffix) > maxSheetName {
			candidate = base[:maxSheetName-len(suffix)] + suffix
		} else {
			candidate = base + suffix
		}
	}
	return candidate
}

func (w *Workbook) hasSheet(name string) bool {
	for _, s := range w.sheets {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

func cellValue(s string) interface{} {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, ok := parseNumber(s); ok {
		return f
	}
	return s
}
