package cbhttpmiddleware

import (
	"context"

	cbhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase/http"
	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "cbhttp"

// Tracing wraps every request in a client span named after the operation. A nil tracer uses the
// global provider.
func Tracing(tracer trace.Tracer, operation string) cbhttp.MiddlewareFunc {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return func(next cbhttp.RunnerFunc) cbhttp.RunnerFunc {
		return func(r *cbhttp.Request) (*cbhttp.Response, *lhttp.HttpError) {
			ctx := r.Context
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, span := tracer.Start(ctx, operation,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					semconv.HTTPMethodKey.String(r.Method),
					semconv.HTTPURLKey.String(r.URI),
				))
			defer span.End()

			r.Context = ctx
			resp, herr := next(r)
			switch {
			case herr.IsTransport():
				span.RecordError(herr)
				span.SetStatus(codes.Error, herr.Error())
			case herr != nil:
				span.SetAttributes(semconv.HTTPStatusCodeKey.Int(herr.Code))
				span.SetStatus(codes.Error, herr.Error())
			case resp != nil:
				span.SetAttributes(semconv.HTTPStatusCodeKey.Int(resp.StatusCode))
			}
			return resp, herr
		}
	}
}
