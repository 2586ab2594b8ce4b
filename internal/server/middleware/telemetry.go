package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/svclab/itemsvc/internal/constants"
	"github.com/svclab/itemsvc/internal/correlation"
	"github.com/svclab/itemsvc/internal/observability"
)

// ResponseWriter wraps http.ResponseWriter to capture the status code
// and stamp the response-time header before headers flush.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	start       time.Time
}

// NewResponseWriter wraps w. The status defaults to 200 so handlers
// that never call WriteHeader are still recorded correctly.
func NewResponseWriter(w http.ResponseWriter, start time.Time) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, statusCode: http.StatusOK, start: start}
}

func (rw *ResponseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true
	rw.statusCode = code
	rw.Header().Set(constants.HeaderResponseTime,
		fmt.Sprintf("%.3fms", float64(time.Since(rw.start).Microseconds())/1000))
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// StatusCode returns the captured status code.
func (rw *ResponseWriter) StatusCode() int {
	return rw.statusCode
}

// Telemetry records one metric sample and one log record per completed
// request. The metric route label is the matched route template, never
// the raw path, so cardinality stays bounded.
func Telemetry(metrics *observability.Metrics, logger *observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := NewResponseWriter(w, start)

			metrics.RequestsInFlight.Inc()
			defer metrics.RequestsInFlight.Dec()

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			route := routeTemplate(r)
			metrics.RecordRequest(route, r.Method, wrapped.statusCode, duration)

			fields := []zap.Field{
				zap.String("correlationId", correlation.IDFromContext(r.Context())),
				zap.String("route", route),
				zap.String("method", r.Method),
				zap.Int("status", wrapped.statusCode),
				zap.Float64("durationMs", float64(duration.Microseconds())/1000),
				zap.String("remote_addr", r.RemoteAddr),
			}
			switch {
			case wrapped.statusCode >= 500:
				logger.Error("request completed", fields...)
			case wrapped.statusCode >= 400:
				logger.Warn("request completed", fields...)
			default:
				logger.Info("request completed", fields...)
			}
		})
	}
}

// routeTemplate returns the matched mux pattern without its method
// prefix. Requests that never matched a route share one label.
func routeTemplate(r *http.Request) string {
	pattern := r.Pattern
	if pattern == "" {
		return "unmatched"
	}
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		pattern = pattern[i+1:]
	}
	return pattern
}
