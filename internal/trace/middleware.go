// Package trace carries the request-scoped middleware: panic recovery and
// per-request span creation with W3C context propagation.
package trace

import (
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Middleware struct {
	logger *zap.Logger
	debug  bool
	tracer trace.Tracer
}

func NewMiddleware(logger *zap.Logger, debug bool) *Middleware {
	return &Middleware{
		logger: logger,
		debug:  debug,
		tracer: otel.Tracer("http/server"),
	}
}

// RecoverMiddleware turns a handler panic into a 500 instead of tearing
// down the connection. Stack traces are logged, and echoed in the
// response only in debug mode.
func (m *Middleware) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := debug.Stack()
				m.logger.Error("Handler panicked",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", stack),
				)
				w.WriteHeader(http.StatusInternalServerError)
				if m.debug {
					_, _ = w.Write(stack)
				}
			}
		}()
		next(w, r)
	}
}

// TraceMiddleware opens a server span per request, honoring any trace
// context the caller propagated.
func (m *Middleware) TraceMiddleware(next http.HandlerFunc) http.HandlerFunc {
	propagator := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		ctx, span := m.tracer.Start(ctx, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		next(w, r.WithContext(ctx))
	}
}
