// Package tracing installs the global OpenTelemetry tracer provider used by
// the engine's spans.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Exporter names.
const (
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

const shutdownTimeout = 5 * time.Second

// ErrUnsupportedExporter is returned for an unknown exporter name.
var ErrUnsupportedExporter = errors.New("unsupported tracing exporter")

// Config governs tracer provider setup.
type Config struct {
	Enabled     bool
	Exporter    string
	ServiceName string

	// Writer receives stdout exporter output. Nil means os.Stderr.
	Writer io.Writer
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Setup installs a tracer provider for cfg and returns its shutdown function.
// Disabled tracing installs a no-op provider.
func Setup(ctx context.Context, cfg Config, log zerolog.Logger) (ShutdownFunc, error) {
	exporter := strings.ToLower(strings.TrimSpace(cfg.Exporter))
	if !cfg.Enabled || exporter == ExporterNone {
		otel.SetTracerProvider(noop.NewTracerProvider())
		log.Debug().Str("component", "tracing").Msg("tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	var exp sdktrace.SpanExporter
	switch exporter {
	case ExporterStdout, "":
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		var err error
		exp, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithoutTimestamps())
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, cfg.Exporter)
	}

	service := cfg.ServiceName
	if service == "" {
		service = "homeenergy"
	}
	res, err := resource.New(ctx, resource.WithAttributes(attribute.String("service.name", service)))
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	log.Debug().
		Str("component", "tracing").
		Str("exporter", ExporterStdout).
		Str("service_name", service).
		Msg("tracing enabled")
	return tp.Shutdown, nil
}

// Shutdown calls shutdown with a bounded timeout and logs any failure.
func Shutdown(ctx context.Context, shutdown ShutdownFunc, log zerolog.Logger) {
	if shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn().Err(err).Str("component", "tracing").Msg("tracing shutdown failed")
	}
}
