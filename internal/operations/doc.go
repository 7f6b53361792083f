// Package operations runs the analysis as a fixed sequence of steps.
//
// A run loads and joins the source tables, derives the calendar features,
// validates the result, reports and exports all tables and finally renders
// the charts:
//
//	load -> derive -> validate -> report -> chart
//
// Every step implements Step and shares one RunState. The Runner executes
// the steps in order, keeps a StepState per step, opens a tracing span
// around each one and records its duration. The first failing step ends the
// run; the remaining steps are marked as skipped.
//
// Example usage:
//
//	runner := operations.NewFullRun(operations.Dependencies{
//		Config:  cfg,
//		Paths:   paths,
//		Logger:  logger,
//		Tracer:  tracing.Tracer(),
//		Metrics: metrics,
//		Out:     os.Stdout,
//	})
//	state, err := runner.Run(ctx)
package operations
