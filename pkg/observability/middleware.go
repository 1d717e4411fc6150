package observability

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// statusRecorder remembers the first status code written.
type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}

	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(buf []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}

	return sr.ResponseWriter.Write(buf) //nolint:wrapcheck // transparent wrapper
}

// HTTPMiddleware wraps next so that each request runs in a server span named
// "METHOD /path", continuing any trace propagated by the caller.
func HTTPMiddleware(tracer trace.Tracer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		parentCtx := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parentCtx, hr.Method+" "+hr.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(hr.Method),
				semconv.URLPath(hr.URL.Path),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: rw}
		next.ServeHTTP(rec, hr.WithContext(ctx))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		span.SetAttributes(semconv.HTTPResponseStatusCode(rec.status))

		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
	})
}
