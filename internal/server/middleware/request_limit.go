package middleware

import (
	"fmt"
	"net/http"

	"github.com/svclab/itemsvc/internal/errs"
	"github.com/svclab/itemsvc/internal/httputil"
)

// RequestSizeLimit rejects oversized request bodies. Declared lengths
// are rejected up front; chunked bodies are capped by MaxBytesReader so
// a handler read past the limit fails instead of buffering unbounded
// input.
func RequestSizeLimit(maxRequestSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxRequestSize > 0 {
				if r.ContentLength > maxRequestSize {
					httputil.WriteError(w, r, errs.TooLarge(
						fmt.Sprintf("request body too large, max size: %d bytes", maxRequestSize)))
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
			}
			next.ServeHTTP(w, r)
		})
	}
}
