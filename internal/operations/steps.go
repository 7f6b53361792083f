package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"bundesrat/internal/chart"
	"bundesrat/internal/config"
	"bundesrat/internal/dataprocessing"
	"bundesrat/internal/errors"
	"bundesrat/internal/exporter"
	"bundesrat/internal/infrastructure"
	"bundesrat/internal/validation"
)

// LoadStep checks the source files, then loads and joins them
type LoadStep struct {
	BaseStep
	files   *validation.FileValidator
	loader  *dataprocessing.Loader
	paths   *config.Paths
	metrics *infrastructure.RunMetrics
}

// NewLoadStep creates the load step
func NewLoadStep(logger *slog.Logger, cfg *config.Config, paths *config.Paths, metrics *infrastructure.RunMetrics) *LoadStep {
	return &LoadStep{
		BaseStep: NewBaseStep(StepIDLoad, "Load and join sources"),
		files:    validation.NewFileValidator(logger),
		loader:   dataprocessing.NewLoader(logger, cfg.Sources.Columns),
		paths:    paths,
		metrics:  metrics,
	}
}

// Execute implements Step
func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	if err := s.files.ValidateInputDirectory(s.paths.DataDir); err != nil {
		return err
	}
	if err := s.files.ValidateSources(s.paths.Sources()...); err != nil {
		return err
	}
	members, err := s.loader.Load(ctx, s.paths)
	if err != nil {
		return err
	}
	state.Members = members

	active := dataprocessing.CountActive(members)
	step := state.GetStep(s.ID())
	step.SetMetadata("members", len(members))
	step.SetMetadata("active", active)

	if s.metrics != nil {
		s.metrics.MembersLoaded.Set(float64(len(members)))
		s.metrics.MembersActive.Set(float64(active))
	}
	return nil
}

// DeriveStep adds retirement dates and year features
type DeriveStep struct {
	BaseStep
	deriver *dataprocessing.Deriver
}

// NewDeriveStep creates the derive step
func NewDeriveStep(deriver *dataprocessing.Deriver) *DeriveStep {
	return &DeriveStep{
		BaseStep: NewBaseStep(StepIDDerive, "Derive features"),
		deriver:  deriver,
	}
}

// Execute implements Step
func (s *DeriveStep) Execute(ctx context.Context, state *RunState) error {
	if state.Members == nil {
		return errors.NewValidationError("no members loaded")
	}
	derived, err := s.deriver.Derive(ctx, state.Members)
	if err != nil {
		return err
	}
	state.Derived = derived
	return nil
}

// ValidateStep checks field values, the number of active members and the
// date ordering
type ValidateStep struct {
	BaseStep
	validator      *validation.MemberValidator
	expectedActive int
}

// NewValidateStep creates the validate step
func NewValidateStep(logger *slog.Logger, expectedActive int) *ValidateStep {
	return &ValidateStep{
		BaseStep:       NewBaseStep(StepIDValidate, "Validate members"),
		validator:      validation.NewMemberValidator(logger),
		expectedActive: expectedActive,
	}
}

// Execute implements Step. The active count is checked on the loaded members
// because deriving fills every retirement date.
func (s *ValidateStep) Execute(ctx context.Context, state *RunState) error {
	if state.Members == nil || state.Derived == nil {
		return errors.NewValidationError("validation needs loaded and derived members")
	}
	if err := s.validator.ValidateAll(ctx, state.Members); err != nil {
		return err
	}
	if err := s.validator.CheckActive(ctx, state.Members, s.expectedActive); err != nil {
		return err
	}
	return s.validator.CheckSanity(ctx, state.Derived)
}

// ReportStep runs the analyses, prints them and exports every table
type ReportStep struct {
	BaseStep
	logger   *slog.Logger
	analyzer *dataprocessing.Analyzer
	newExp   func() *exporter.Exporter
	out      io.Writer
}

// NewReportStep creates the report step. Tables are printed to out.
func NewReportStep(logger *slog.Logger, cfg *config.Config, paths *config.Paths, metrics *infrastructure.RunMetrics, out io.Writer) *ReportStep {
	if out == nil {
		out = io.Discard
	}
	return &ReportStep{
		BaseStep: NewBaseStep(StepIDReport, "Report and export tables"),
		logger:   logger,
		analyzer: dataprocessing.NewAnalyzer(logger),
		newExp: func() *exporter.Exporter {
			return exporter.New(logger, cfg, paths, metrics)
		},
		out: out,
	}
}

// Execute implements Step
func (s *ReportStep) Execute(ctx context.Context, state *RunState) (err error) {
	if state.Derived == nil {
		return errors.NewValidationError("no derived members to report")
	}
	report := s.analyzer.Analyze(ctx, state.Derived)
	state.Report = report

	step := state.GetStep(s.ID())
	step.SetMetadata("tables", len(report.Tables))

	exp := s.newExp()
	defer func() {
		if cerr := exp.Close(); err == nil {
			err = cerr
		}
		state.Files = exp.Written()
		step.SetMetadata("files", len(state.Files))
	}()

	fmt.Fprintf(s.out, "Total members in the council: %d\n\n", report.Total)
	for _, t := range report.Tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s\n%s\n", t.Name, exporter.RenderMarkdown(t))
		if t.Name == dataprocessing.TableCantons {
			fmt.Fprintf(s.out, "Cantons without federal council: %d\n\n", len(report.MissingCantons))
		}
		if err := exp.Export(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// ChartStep renders the age and canton charts
type ChartStep struct {
	BaseStep
	renderer *chart.Renderer
}

// NewChartStep creates the chart step
func NewChartStep(logger *slog.Logger, cfg *config.Config, paths *config.Paths) *ChartStep {
	return &ChartStep{
		BaseStep: NewBaseStep(StepIDChart, "Render charts"),
		renderer: chart.NewRenderer(logger, paths, cfg.Analysis.ChartWidthPx),
	}
}

// Execute implements Step
func (s *ChartStep) Execute(ctx context.Context, state *RunState) error {
	if state.Report == nil {
		return errors.NewValidationError("no report to chart")
	}
	agePath, err := s.renderer.AgeChart(state.Report.AgeByYear)
	if err != nil {
		return err
	}
	cantonPath, err := s.renderer.CantonChart(state.Report.Cantons)
	if err != nil {
		return err
	}
	state.Charts = append(state.Charts, agePath, cantonPath)
	state.GetStep(s.ID()).SetMetadata("charts", len(state.Charts))
	return nil
}
