package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"bundesrat/internal/config"
	"bundesrat/pkg/contracts"
)

const (
	ServiceName = "bundesrat-analysis"
	TracerName  = "bundesrat"
)

// Tracing owns the tracer provider of one run
type Tracing struct {
	provider *sdktrace.TracerProvider
	file     *os.File
	logger   *slog.Logger
}

// InitializeTracing sets up OpenTelemetry tracing for the configured exporter.
// With exporter "none" the global no-op provider stays in place.
func InitializeTracing(cfg config.TracingConfig, logger *slog.Logger) (*Tracing, error) {
	if logger == nil {
		logger = GetLogger()
	}
	t := &Tracing{logger: logger}

	var w io.Writer
	switch cfg.Exporter {
	case "none", "":
		return t, nil
	case "stdout":
		w = os.Stdout
	case "file":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.Create(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace file: %w", err)
		}
		t.file = f
		w = f
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		t.closeFile()
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", contracts.Version),
	)

	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(t.provider)

	logger.Info("Tracing initialized", slog.String("exporter", cfg.Exporter))
	return t, nil
}

// Tracer returns the tracer used by pipeline steps
func (t *Tracing) Tracer() trace.Tracer {
	if t != nil && t.provider != nil {
		return t.provider.Tracer(TracerName, trace.WithInstrumentationVersion(contracts.Version))
	}
	return otel.Tracer(TracerName)
}

// Shutdown flushes pending spans and closes the trace file
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var err error
	if t.provider != nil {
		err = t.provider.Shutdown(ctx)
	}
	if cerr := t.closeFile(); err == nil {
		err = cerr
	}
	return err
}

func (t *Tracing) closeFile() error {
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}
