package fn

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/WessleyAI/carhub/pkg/fn"

// Traced runs f inside a span named name. Failed results mark the span as an
// error; degraded results are recorded as an attribute with their cause.
func Traced[T any](ctx context.Context, name string, f func(context.Context) Result[T]) Result[T] {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name)
	defer span.End()

	r := f(ctx)
	span.SetAttributes(attribute.String("result.status", r.Status().String()))
	if err := r.Cause(); err != nil {
		span.RecordError(err)
		if r.IsErr() {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	return r
}
