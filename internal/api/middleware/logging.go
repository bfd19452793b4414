package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const LoggerKey contextKey = "logger"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags every request with a correlation id, stores a
// request-scoped logger in the context, and logs one completion line.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		correlationID := r.Header.Get("X-Correlation-ID")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		logger := slog.Default().With(
			slog.String("correlation_id", correlationID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()),
		)

		if span := trace.SpanContextFromContext(r.Context()); span.HasTraceID() {
			logger = logger.With(slog.String("trace_id", span.TraceID().String()))
		}

		ctx := context.WithValue(r.Context(), LoggerKey, logger)

		w.Header().Set("X-Correlation-ID", correlationID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info("request completed",
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// LoggerFromContext returns the request-scoped logger, or the default
// logger when the middleware did not run.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return logger
	}

	return slog.Default()
}
