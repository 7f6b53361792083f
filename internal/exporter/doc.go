// Package exporter writes report tables to disk.
//
// Each table is written as <export dir>/<table name>.<ext> for every enabled
// format:
//
//   - markdown (.md): pipe table, numeric columns right-aligned
//   - typst (.typ): a #table call with bold header cells
//   - csv (.csv): plain CSV, optionally with a UTF-8 BOM for Excel
//   - xlsx: one sheet per table in a single workbook, saved by Close
//
// Example usage:
//
//	exp := exporter.New(logger, cfg, paths, metrics)
//	for _, table := range report.Tables {
//	    if err := exp.Export(ctx, table); err != nil {
//	        return err
//	    }
//	}
//	if err := exp.Close(); err != nil {
//	    return err
//	}
//
// RenderMarkdown is also used to print tables to the console.
package exporter
