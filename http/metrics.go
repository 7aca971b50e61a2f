package http

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/freekieb7/rawhttp/http"

// serverMetrics records one span and a set of measurements per request.
// Without a configured SDK the global providers are no-ops.
type serverMetrics struct {
	tracer      trace.Tracer
	requests    metric.Int64Counter
	duration    metric.Float64Histogram
	activeConns metric.Int64UpDownCounter
}

func newServerMetrics() (*serverMetrics, error) {
	meter := otel.Meter(instrumentationName)

	requests, err := meter.Int64Counter("rawhttp.server.requests",
		metric.WithDescription("Number of responses written, by method and status"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("rawhttp.server.request.duration",
		metric.WithDescription("Time from parsed request to written response"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	activeConns, err := meter.Int64UpDownCounter("rawhttp.server.connections.active",
		metric.WithDescription("Connections currently being handled"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	return &serverMetrics{
		tracer:      otel.Tracer(instrumentationName),
		requests:    requests,
		duration:    duration,
		activeConns: activeConns,
	}, nil
}

func (m *serverMetrics) connOpened(ctx context.Context) {
	m.activeConns.Add(ctx, 1)
}

func (m *serverMetrics) connClosed(ctx context.Context) {
	m.activeConns.Add(ctx, -1)
}

func (m *serverMetrics) startRequest(ctx context.Context, reqCtx *RequestCtx) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, reqCtx.Method+" "+reqCtx.Path,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", reqCtx.Method),
			attribute.String("url.path", reqCtx.Path),
			attribute.String("url.query", reqCtx.QueryString),
			attribute.String("network.protocol.version", reqCtx.Protocol),
			attribute.String("client.address", reqCtx.RemoteAddr),
			attribute.String("rawhttp.request.id", reqCtx.ID.String()),
		),
	)
}

func (m *serverMetrics) endRequest(ctx context.Context, span trace.Span, method string, res Response, start time.Time) {
	status := res.Status().Code()
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.Int("http.response.status_code", status),
	)

	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	span.SetAttributes(
		attribute.Int("http.response.status_code", status),
		attribute.Int("http.response.body.size", res.ContentLength()),
	)
	if status >= 500 {
		span.SetStatus(codes.Error, res.Status().String())
	}
	span.End()
}
