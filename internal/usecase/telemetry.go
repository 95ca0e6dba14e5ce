package usecase

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
)

const instrumentationName = "github.com/polkiloo/campusmarket/internal/usecase"

var tracer = otel.Tracer(instrumentationName)

func int64Counter(name, description string) metric.Int64Counter {
	c, err := otel.Meter(instrumentationName).Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan marks unexpected failures as span errors. Domain rejections are
// recorded as events only.
func endSpan(span trace.Span, err error) {
	if err != nil {
		var de *domainErrors.Error
		if errors.As(err, &de) {
			span.AddEvent("rejected", trace.WithAttributes(attribute.String("reason", de.Message)))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
