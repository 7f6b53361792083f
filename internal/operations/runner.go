package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"bundesrat/internal/errors"
	"bundesrat/internal/infrastructure"
)

// Runner executes steps sequentially and stops at the first failure
type Runner struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.RunMetrics
	steps   []Step
	now     func() time.Time
}

// NewRunner creates a runner for the given steps. tracer and metrics may be nil.
func NewRunner(logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.RunMetrics, steps ...Step) *Runner {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(infrastructure.TracerName)
	}
	return &Runner{
		logger:  infrastructure.WithComponent(logger, "runner"),
		tracer:  tracer,
		metrics: metrics,
		steps:   steps,
		now:     time.Now,
	}
}

// Steps returns the steps in execution order
func (r *Runner) Steps() []Step {
	return r.steps
}

// Run executes all steps. The returned state is never nil, also on failure,
// so callers can inspect which steps completed.
func (r *Runner) Run(ctx context.Context) (*RunState, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	state := NewRunState(infrastructure.GetTraceID(ctx), r.steps)

	ctx, span := r.tracer.Start(ctx, "run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", state.ID),
			attribute.Int("run.steps", len(r.steps)),
		),
	)
	defer span.End()

	r.logger.InfoContext(ctx, "Run started", slog.Int("step_count", len(r.steps)))

	for i, step := range r.steps {
		if err := ctx.Err(); err != nil {
			r.skipFrom(state, i, "run cancelled")
			span.SetStatus(codes.Error, "cancelled")
			return state, errors.NewCancelledError(err).
				WithContext("step", step.ID())
		}

		if err := r.executeStep(ctx, state, step, i); err != nil {
			r.skipFrom(state, i+1, fmt.Sprintf("previous step %s failed", step.ID()))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return state, err
		}
	}

	r.metrics.MarkSuccess(r.now())
	span.SetStatus(codes.Ok, "")
	r.logger.InfoContext(ctx, "Run completed",
		slog.Duration("duration", r.now().Sub(state.StartTime)))
	return state, nil
}

func (r *Runner) executeStep(ctx context.Context, state *RunState, step Step, index int) error {
	stepState := state.GetStep(step.ID())

	ctx, span := r.tracer.Start(ctx, "step."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", state.ID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
	defer span.End()

	logger := r.logger.With(slog.String("step", step.ID()))
	logger.InfoContext(ctx, "Executing step",
		slog.Int("step_number", index+1),
		slog.Int("total_steps", len(r.steps)))

	stepState.Start()
	err := step.Execute(ctx, state)
	duration := stepState.Duration()
	r.metrics.ObserveStep(step.ID(), duration, err)

	if err != nil {
		stepState.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Step failed",
			slog.Duration("duration", duration),
			slog.String("error_type", string(errors.TypeOf(err))))
		return err
	}

	stepState.Complete()
	span.SetStatus(codes.Ok, "")
	logger.InfoContext(ctx, "Step completed", slog.Duration("duration", duration))
	return nil
}

func (r *Runner) skipFrom(state *RunState, from int, reason string) {
	for _, step := range r.steps[from:] {
		state.GetStep(step.ID()).Skip(reason)
	}
}
