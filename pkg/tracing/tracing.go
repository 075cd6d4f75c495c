// Package tracing configures OpenTelemetry distributed tracing.
package tracing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/JaimeStill/stagehand/pkg/lifecycle"
)

// Span attribute keys.
const (
	SessionIDKey = "stagehand.session.id"
	StageIDKey   = "stagehand.stage.id"
	ActionKey    = "stagehand.action"
)

// System owns the tracer provider.
type System struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	logger   *slog.Logger
}

// New creates the tracing system. When tracing is disabled the tracer is a no-op
// and nothing is exported.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (*System, error) {
	logger = logger.With("system", "tracing")

	if !cfg.Enabled {
		return &System{
			tracer: noop.NewTracerProvider().Tracer(cfg.ServiceName),
			logger: logger,
		}, nil
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create tracer provider: %w", err)
	}

	return &System{
		tracer:   provider.Tracer(cfg.ServiceName),
		provider: provider,
		logger:   logger,
	}, nil
}

// Tracer returns the service tracer.
func (s *System) Tracer() trace.Tracer {
	return s.tracer
}

// Start registers a shutdown hook that flushes pending spans.
func (s *System) Start(lc *lifecycle.Coordinator) error {
	if s.provider == nil {
		return nil
	}

	s.logger.Info("tracing enabled")

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.provider.Shutdown(ctx); err != nil {
			s.logger.Error("tracer provider shutdown failed", "error", err)
		}
	})

	return nil
}

// SetError records err on span and marks the span failed.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err, trace.WithAttributes(attrs...))
	span.SetStatus(codes.Error, err.Error())
}

func newProvider(ctx context.Context, cfg *Config) (*sdktrace.TracerProvider, error) {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	var opts []otlptracehttp.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}))

	return tp, nil
}
