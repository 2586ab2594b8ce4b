package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/svclab/itemsvc/internal/config"
	"github.com/svclab/itemsvc/internal/constants"
)

// CORS applies the configured cross-origin policy and answers
// preflight requests.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get(constants.HeaderOrigin)

			allowed := false
			for _, allowedOrigin := range cfg.AllowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					allowed = true
					break
				}
			}

			if allowed && origin != "" {
				w.Header().Set(constants.HeaderAccessControlAllowOrigin, origin)
				if len(cfg.AllowedMethods) > 0 {
					w.Header().Set(constants.HeaderAccessControlAllowMethods, strings.Join(cfg.AllowedMethods, ", "))
				}
				if len(cfg.AllowedHeaders) > 0 {
					w.Header().Set(constants.HeaderAccessControlAllowHeaders, strings.Join(cfg.AllowedHeaders, ", "))
				}
				if cfg.MaxAge > 0 {
					w.Header().Set(constants.HeaderAccessControlMaxAge, strconv.Itoa(cfg.MaxAge))
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
