package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/svclab/itemsvc/internal/constants"
	"github.com/svclab/itemsvc/internal/correlation"
	"github.com/svclab/itemsvc/internal/errs"
)

// WriteJSON sends a JSON response with the specified status code.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError maps an error to its envelope and writes it. The
// correlation id is taken from the request context so the envelope,
// the response header, and the log record all carry the same id.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	envelope := errs.ToEnvelope(err, correlation.IDFromContext(r.Context()))
	WriteJSON(w, errs.HTTPStatus(err), envelope)
}
