package operations

import (
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"bundesrat/internal/config"
	"bundesrat/internal/dataprocessing"
	"bundesrat/internal/infrastructure"
)

// Dependencies holds everything the steps of a run need
type Dependencies struct {
	Config  *config.Config
	Paths   *config.Paths
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *infrastructure.RunMetrics
	// Out receives the console report; nil discards it
	Out io.Writer
	// Now is the clock used for "today"; nil means time.Now
	Now func() time.Time
}

// NewFullRun builds the runner for load, derive, validate, report and chart
func NewFullRun(d Dependencies) *Runner {
	steps := append(validationSteps(d),
		NewReportStep(d.Logger, d.Config, d.Paths, d.Metrics, d.Out),
		NewChartStep(d.Logger, d.Config, d.Paths),
	)
	return d.runner(steps)
}

// NewValidationRun builds the runner for load, derive and validate only
func NewValidationRun(d Dependencies) *Runner {
	return d.runner(validationSteps(d))
}

func validationSteps(d Dependencies) []Step {
	return []Step{
		NewLoadStep(d.Logger, d.Config, d.Paths, d.Metrics),
		NewDeriveStep(dataprocessing.NewDeriver(d.Logger, d.Now)),
		NewValidateStep(d.Logger, d.Config.Analysis.ExpectedActive),
	}
}

func (d Dependencies) runner(steps []Step) *Runner {
	r := NewRunner(d.Logger, d.Tracer, d.Metrics, steps...)
	if d.Now != nil {
		r.now = d.Now
	}
	return r
}
