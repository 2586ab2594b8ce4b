package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/svclab/itemsvc/internal/correlation"
	"github.com/svclab/itemsvc/internal/errs"
	"github.com/svclab/itemsvc/internal/httputil"
	"github.com/svclab/itemsvc/internal/observability"
)

// Recovery absorbs handler panics into a 500 envelope. The panic value
// is logged with the correlation id, never sent to the client. It runs
// inside Telemetry so the failed request still produces a metric sample
// and a log record.
func Recovery(logger *observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panic",
						zap.Any("panic", rec),
						zap.String("correlationId", correlation.IDFromContext(r.Context())),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"),
					)
					httputil.WriteError(w, r, errs.Internal(fmt.Errorf("panic: %v", rec)))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
