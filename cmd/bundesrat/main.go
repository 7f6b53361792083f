// Package main provides the bundesrat binary entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bundesrat/internal/config"
	"bundesrat/internal/errors"
	"bundesrat/internal/infrastructure"
	"bundesrat/internal/operations"
	"bundesrat/internal/validation"
	"bundesrat/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("Command failed",
			slog.String("error_type", string(errors.TypeOf(err))),
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the persistent flags that override the configuration
type options struct {
	configFile string
	dataDir    string
	exportDir  string
	plotsDir   string
	formats    []string
}

func (o *options) apply(cfg *config.Config) {
	if o.dataDir != "" {
		cfg.Paths.DataDir = o.dataDir
	}
	if o.exportDir != "" {
		cfg.Paths.ExportDir = o.exportDir
	}
	if o.plotsDir != "" {
		cfg.Paths.PlotsDir = o.plotsDir
	}
	if len(o.formats) > 0 {
		cfg.Export.Formats = append([]string(nil), o.formats...)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bundesrat",
		Short: "Analyse the members of the Swiss Federal Council",
		Long: `bundesrat joins the member list published by admin.ch with the German and
Spanish Wikipedia tables, derives calendar features and reports statistics
about parties, cantons, ages and terms of office.

Tables are printed to stdout and exported as Markdown and Typst files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Config file path (YAML)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "Directory containing the source tables")
	flags.StringVar(&opts.exportDir, "export-dir", "", "Directory for exported tables")
	flags.StringVar(&opts.plotsDir, "plots-dir", "", "Directory for rendered charts")
	flags.StringSliceVar(&opts.formats, "formats", nil, "Export formats (markdown, typst, csv, xlsx)")

	cmd.AddCommand(
		newRunCmd(opts, out),
		newValidateCmd(opts, out),
		newVersionCmd(out),
	)
	return cmd
}

func newRunCmd(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Load, analyse, export and chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(opts)
			if err != nil {
				return err
			}
			defer s.close()

			files := validation.NewFileValidator(s.logger)
			for _, dir := range s.paths.OutputDirs() {
				if err := files.ValidateOutputDirectory(dir); err != nil {
					return err
				}
			}

			_, err = operations.NewFullRun(s.dependencies(out)).Run(cmd.Context())
			return err
		},
	}
}

func newValidateCmd(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load, derive and validate the sources without exporting",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(opts)
			if err != nil {
				return err
			}
			defer s.close()

			state, err := operations.NewValidationRun(s.dependencies(out)).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Members validated: %d\n", len(state.Members))
			return nil
		},
	}
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(out, contracts.GetFullVersionString())
		},
	}
}

// session holds the ambient services of one command invocation
type session struct {
	cfg     *config.Config
	paths   *config.Paths
	logger  *slog.Logger
	tracing *infrastructure.Tracing
	metrics *infrastructure.RunMetrics
}

func setup(opts *options) (*session, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid configuration", err)
	}

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		return nil, errors.NewConfigError("failed to resolve paths", err)
	}

	cfg.Logging.FilePath = paths.LogFile
	cfg.Tracing.FilePath = paths.TraceFile

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, errors.NewConfigError("failed to initialize logger", err)
	}
	paths.LogPathResolution(logger)

	tracing, err := infrastructure.InitializeTracing(cfg.Tracing, logger)
	if err != nil {
		return nil, errors.NewConfigError("failed to initialize tracing", err)
	}

	return &session{
		cfg:     cfg,
		paths:   paths,
		logger:  logger,
		tracing: tracing,
		metrics: infrastructure.NewRunMetrics(),
	}, nil
}

func (s *session) dependencies(out io.Writer) operations.Dependencies {
	return operations.Dependencies{
		Config:  s.cfg,
		Paths:   s.paths,
		Logger:  s.logger,
		Tracer:  s.tracing.Tracer(),
		Metrics: s.metrics,
		Out:     out,
	}
}

// close flushes metrics and spans, then closes the log file. Failures are
// logged only, they must not hide the outcome of the run.
func (s *session) close() {
	if err := s.metrics.WriteTextfile(s.paths.MetricsFile); err != nil {
		infrastructure.WithError(s.logger, err).Warn("Failed to write metrics")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.tracing.Shutdown(ctx); err != nil {
		infrastructure.WithError(s.logger, err).Warn("Failed to shut down tracing")
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close log file: %v\n", err)
	}
}
