package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const tracingOperation = "http.server"

// Tracing starts a server span per request. Once chi has routed the request
// the span is named "METHOD pattern", e.g. "GET /api/instagram/{username}".
// A nil provider uses the global one.
func Tracing(tp trace.TracerProvider) func(http.Handler) http.Handler {
	opts := []otelhttp.Option{otelhttp.WithSpanNameFormatter(spanName)}
	if tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(tp))
	}

	return func(next http.Handler) http.Handler {
		// otelhttp only re-applies the formatter when it sees r.Pattern, which
		// downstream middleware hides by copying the request.
		named := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			trace.SpanFromContext(r.Context()).SetName(spanName(tracingOperation, r))
		})
		return otelhttp.NewHandler(named, tracingOperation, opts...)
	}
}

// spanName uses the full chi pattern; r.Pattern only holds the innermost
// subrouter's part.
func spanName(operation string, r *http.Request) string {
	if route := routePattern(r); route != unmatchedRoute {
		return r.Method + " " + route
	}
	return operation
}
