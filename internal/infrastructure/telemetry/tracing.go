package telemetry

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const serviceNameKey = attribute.Key("service.name")

// Provider owns the process tracer provider installed by Setup.
type Provider struct {
	provider trace.TracerProvider
	sdk      *sdktrace.TracerProvider
	previous trace.TracerProvider
}

// Setup installs a global tracer provider. When disabled a no-op provider is
// installed so instrumented code pays nothing.
func Setup(serviceName string, enabled bool, logger logrus.FieldLogger) *Provider {
	previous := otel.GetTracerProvider()

	if !enabled {
		provider := noop.NewTracerProvider()
		otel.SetTracerProvider(provider)
		return &Provider{provider: provider, previous: previous}
	}

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(NewLogExporter(logger, serviceName)),
	)
	otel.SetTracerProvider(sdk)
	return &Provider{provider: sdk, sdk: sdk, previous: previous}
}

func (p *Provider) TracerProvider() trace.TracerProvider {
	return p.provider
}

// Shutdown flushes pending spans and restores the previously installed
// provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	defer otel.SetTracerProvider(p.previous)
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

// LogExporter writes finished spans as structured log entries.
type LogExporter struct {
	logger      logrus.FieldLogger
	serviceName string
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

func NewLogExporter(logger logrus.FieldLogger, serviceName string) *LogExporter {
	return &LogExporter{logger: logger, serviceName: serviceName}
}

func (e *LogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	if e.logger == nil {
		return nil
	}

	for _, span := range spans {
		attrs := make(map[string]any, len(span.Attributes())+1)
		attrs[string(serviceNameKey)] = e.serviceName
		for _, kv := range span.Attributes() {
			attrs[string(kv.Key)] = kv.Value.AsInterface()
		}

		fields := logrus.Fields{
			"span.name":   span.Name(),
			"trace_id":    span.SpanContext().TraceID().String(),
			"span_id":     span.SpanContext().SpanID().String(),
			"duration_ms": span.EndTime().Sub(span.StartTime()).Milliseconds(),
			"status":      span.Status().Code.String(),
			"attributes":  attrs,
		}
		if span.Parent().IsValid() {
			fields["parent_span_id"] = span.Parent().SpanID().String()
		}

		e.logger.WithFields(fields).Debug("trace.span")
	}
	return nil
}

func (e *LogExporter) Shutdown(context.Context) error {
	return nil
}
