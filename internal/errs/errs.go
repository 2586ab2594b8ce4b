package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable error codes surfaced in the error envelope.
const (
	CodeValidation  = "validation_error"
	CodeBadRequest  = "bad_request"
	CodeNotFound    = "not_found"
	CodeConflict    = "conflict"
	CodeTimeout     = "timeout"
	CodeTooLarge    = "request_too_large"
	CodeRateLimited = "rate_limited"
	CodeInternal    = "internal_error"
)

// Error is an application error carrying a stable code. The HTTP status
// is derived from the code, never stored by callers.
type Error struct {
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Validation reports client input that violates a contract.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// BadRequest reports a malformed request.
func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message}
}

// NotFound reports a missing resource.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Conflict reports a resource conflict.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Timeout reports a bounded operation that exceeded its deadline.
func Timeout(message string) *Error {
	return &Error{Code: CodeTimeout, Message: message}
}

// TooLarge reports a request body exceeding the size limit.
func TooLarge(message string) *Error {
	return &Error{Code: CodeTooLarge, Message: message}
}

// RateLimited reports a client exceeding its request budget.
func RateLimited(message string) *Error {
	return &Error{Code: CodeRateLimited, Message: message}
}

// Internal wraps an unexpected fault. The cause is logged, never sent
// to the client.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "an unexpected error occurred", cause: cause}
}

// statusByCode is the kind -> HTTP status table.
var statusByCode = map[string]int{
	CodeValidation:  http.StatusUnprocessableEntity,
	CodeBadRequest:  http.StatusBadRequest,
	CodeNotFound:    http.StatusNotFound,
	CodeConflict:    http.StatusConflict,
	CodeTimeout:     http.StatusGatewayTimeout,
	CodeTooLarge:    http.StatusRequestEntityTooLarge,
	CodeRateLimited: http.StatusTooManyRequests,
	CodeInternal:    http.StatusInternalServerError,
}

// HTTPStatus maps an error to its HTTP status code. Unknown errors map
// to 500 so that nothing escapes the envelope unclassified.
func HTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		if status, ok := statusByCode[appErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// Envelope is the wire format for failed requests.
type Envelope struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
}

// ToEnvelope converts any error into an Envelope. Non-application
// errors are masked as internal errors.
func ToEnvelope(err error, correlationID string) Envelope {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}
	return Envelope{
		Code:          appErr.Code,
		Message:       appErr.Message,
		CorrelationID: correlationID,
	}
}
