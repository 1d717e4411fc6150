package observability

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Error classes attached to failed spans as error.type.
const (
	ErrTypeExhausted = "exhausted"
	ErrTypeInvalidID = "invalid_id"
	ErrTypeCanceled  = "canceled"
	ErrTypeInternal  = "internal"
)

// RecordSpanError records err on span, marks the span failed and tags it with
// errType. A nil err is ignored.
func RecordSpanError(span trace.Span, err error, errType string) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("error.type", errType))
}
