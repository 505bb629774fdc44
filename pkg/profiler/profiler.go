// Package profiler is the engine's optional profiling collaborator: a
// thin domain-specific wrapper over pkg/telemetry's OpenTelemetry
// integration that records spans when profiling is enabled (the CLI
// records one span per run), and is a complete no-op otherwise. Grounded
// on the teacher's pkg/telemetry.Init sync.Once initialization pattern;
// Record/Report are new call sites that exercise the same tracer/exporter
// stack for the graph engine instead of the teacher's original profiling
// subjects.
package profiler

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vertexflow/vertexflow/pkg/telemetry"
)

const tracerName = "vertexflow/profiler"

var (
	once      sync.Once
	enabled   bool
	shutdown  telemetry.ShutdownFunc
	initError error
)

// Init enables the profiler if profilingEnabled is true, calling
// telemetry.Init, which installs the OTLP exporter only when OTEL_ENABLED
// is "true". Safe to call multiple times; only the
// first call takes effect. Callers should defer the returned shutdown
// function.
func Init(ctx context.Context, profilingEnabled bool) (telemetry.ShutdownFunc, error) {
	once.Do(func() {
		enabled = profilingEnabled
		if !enabled {
			shutdown = func(context.Context) error { return nil }
			return
		}
		shutdown, initError = telemetry.Init(ctx)
	})
	return shutdown, initError
}

// Enabled reports whether the profiler was initialized with profiling on.
func Enabled() bool { return enabled }

// Span wraps an active span plus its context, returned by Record so
// callers can End it once the profiled operation completes.
type Span struct {
	span trace.Span
}

// End closes the span. A no-op when profiling is disabled.
func (s Span) End() {
	if s.span != nil {
		s.span.End()
	}
}

// Record opens a span named event tagged with tag (typically an
// algorithm name or iteration number), returning the derived context and
// a Span to End when the operation completes. A no-op (returns ctx
// unchanged and a zero Span) when the profiler was never enabled.
func Record(ctx context.Context, event, tag string) (context.Context, Span) {
	if !enabled {
		return ctx, Span{}
	}
	tracer := otel.Tracer(tracerName)
	spanCtx, span := tracer.Start(ctx, event, trace.WithAttributes(
		attribute.String("tag", tag),
	))
	return spanCtx, Span{span: span}
}

// Report flushes any buffered spans by invoking the shutdown function Init
// returned, which also shuts the tracer provider down. A no-op when
// disabled.
func Report(ctx context.Context) error {
	if !enabled || shutdown == nil {
		return nil
	}
	return shutdown(ctx)
}
