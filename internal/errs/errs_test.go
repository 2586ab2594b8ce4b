package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("name is required"), http.StatusUnprocessableEntity},
		{"bad request", BadRequest("invalid JSON body"), http.StatusBadRequest},
		{"not found", NotFound("item not found"), http.StatusNotFound},
		{"conflict", Conflict("item already exists"), http.StatusConflict},
		{"timeout", Timeout("upstream deadline exceeded"), http.StatusGatewayTimeout},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("handler: %w", NotFound("gone")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToEnvelope(t *testing.T) {
	env := ToEnvelope(NotFound("item '42' not found"), "req-123")
	if env.Code != CodeNotFound {
		t.Errorf("Code = %q, want %q", env.Code, CodeNotFound)
	}
	if env.Message != "item '42' not found" {
		t.Errorf("Message = %q", env.Message)
	}
	if env.CorrelationID != "req-123" {
		t.Errorf("CorrelationID = %q, want req-123", env.CorrelationID)
	}
}

func TestToEnvelope_MasksUnknownErrors(t *testing.T) {
	env := ToEnvelope(errors.New("pq: connection refused"), "req-456")
	if env.Code != CodeInternal {
		t.Errorf("Code = %q, want %q", env.Code, CodeInternal)
	}
	if env.Message == "pq: connection refused" {
		t.Error("internal cause leaked into envelope message")
	}
}

func TestInternal_PreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause)
	if !errors.Is(err, cause) {
		t.Error("Internal() should wrap its cause")
	}
}
