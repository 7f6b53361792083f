// Package dataprocessing loads the Federal Council tables and turns them into
// report tables.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Loader: Reads the admin.ch export and both Wikipedia lists with gota and
// joins them 1:1 on name and list number
// 2. Deriver: Fills in the retirement date of active members and extracts
// the year ranges
// 3. Analyzer: Groups, counts and describes the members, one table per analysis
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, cfg.Sources.Columns)
//	members, err := loader.Load(ctx, paths)
//	if err != nil {
//	    return err
//	}
//
//	derived, err := dataprocessing.NewDeriver(logger, time.Now).Derive(ctx, members)
//	if err != nil {
//	    return err
//	}
//
//	report := dataprocessing.NewAnalyzer(logger).Analyze(ctx, derived)
//	for _, table := range report.Tables {
//	    // export table
//	}
//
// # Data Flow
//
// Every step returns a new slice of members; the loaded members are never
// modified, so the count of active members can still be checked after
// derivation.
//
// # Error Handling
//
// Source problems are returned as *errors.AppError: NOT_FOUND for missing
// files, PARSING for bad columns, dates and year ranges and JOIN when a join
// is not 1:1.
package dataprocessing
