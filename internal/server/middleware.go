package server

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/svclab/itemsvc/internal/server/middleware"
)

// applyMiddleware wraps the route table with the full chain. Listed
// innermost first: a request passes request-id, telemetry, recovery,
// CORS, rate limiting, then the size limit before reaching a handler.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	handler = middleware.RequestSizeLimit(s.config.Server.MaxRequestSize)(handler)

	if s.config.RateLimit.Enabled {
		handler = middleware.NewRateLimiter(s.config.RateLimit).Middleware(handler)
	}

	if s.config.CORS.Enabled {
		handler = middleware.CORS(s.config.CORS)(handler)
	}

	handler = s.traceMiddleware(handler)

	// Recovery sits inside telemetry so an absorbed panic still yields
	// a metric sample and a log record.
	handler = middleware.Recovery(s.logger)(handler)
	handler = middleware.Telemetry(s.metrics, s.logger)(handler)
	handler = middleware.RequestID()(handler)

	return handler
}

// traceMiddleware opens one span per request.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.StartSpan(r.Context(), "handle_request",
			attribute.String("http.method", r.Method),
			attribute.String("http.path", r.URL.Path),
		)
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
