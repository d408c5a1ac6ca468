package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is a thin adapter over the global OpenTelemetry provider so the
// submission flow can emit spans without spreading otel types through the
// package. The returned end function records the operation's error, if any.
type tracer struct {
	t trace.Tracer
}

func newTracer() tracer {
	return tracer{t: otel.Tracer("formgate/contact")}
}

func (tr tracer) start(ctx context.Context, name string) (context.Context, func(error)) {
	ctx, span := tr.t.Start(ctx, name)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
