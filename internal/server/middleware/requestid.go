package middleware

import (
	"net/http"

	"github.com/svclab/itemsvc/internal/constants"
	"github.com/svclab/itemsvc/internal/correlation"
)

// RequestID starts the correlation context for each request. A
// well-formed inbound X-Request-ID is reused, otherwise a fresh id is
// minted. The id is echoed on the response so clients can quote it,
// and every response carries one regardless of outcome.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := correlation.Begin(r.Header.Get(constants.HeaderRequestID))
			w.Header().Set(constants.HeaderRequestID, c.ID)

			next.ServeHTTP(w, r.WithContext(correlation.NewContext(r.Context(), c)))
		})
	}
}
