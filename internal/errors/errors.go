// Package errors defines the coded error taxonomy shared by the tool
// dispatcher, the upstream client, and the HTTP surface. Every error that
// crosses a package boundary is an *Error so callers can branch on Code
// without string matching.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeUpstreamError    = "UPSTREAM_ERROR"
	CodeNetworkError     = "NETWORK_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Error is a coded application error. StatusCode and Endpoint are only set
// for upstream failures.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`

	wrapped error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.wrapped
}

// NewValidationError reports a bad or missing tool argument. It is always
// raised before any network call is made.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Code: CodeValidationFailed, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a lookup that matched nothing.
func NewNotFoundError(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewUpstreamError reports a non-2xx upstream response after retries.
func NewUpstreamError(statusCode int, endpoint, message string) *Error {
	return &Error{
		Code:       CodeUpstreamError,
		Message:    message,
		StatusCode: statusCode,
		Endpoint:   endpoint,
	}
}

// NewNetworkError reports a connection-level failure after retries.
func NewNetworkError(endpoint string, cause error) *Error {
	message := "network error"
	if cause != nil {
		message = cause.Error()
	}
	return &Error{
		Code:     CodeNetworkError,
		Message:  message,
		Endpoint: endpoint,
		wrapped:  cause,
	}
}

// NewInternalError reports an unexpected failure inside the service.
func NewInternalError(message string) *Error {
	return &Error{Code: CodeInternalError, Message: message}
}

// AsError normalizes any error into an *Error, defaulting to INTERNAL_ERROR.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) && coded != nil {
		return coded
	}
	return &Error{Code: CodeInternalError, Message: err.Error(), wrapped: err}
}

// CodeOf returns the code of err, or INTERNAL_ERROR for uncoded errors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	return AsError(err).Code
}

// HTTPStatusFromCode resolves the HTTP status a coded error maps to.
func HTTPStatusFromCode(code string) int {
	switch code {
	case CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstreamError:
		return http.StatusBadGateway
	case CodeNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorDetail is the error body returned to callers.
type HTTPErrorDetail struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// HTTPErrorResponse wraps HTTPErrorDetail in the standard envelope.
type HTTPErrorResponse struct {
	Error HTTPErrorDetail `json:"error"`
}

// RespondWithError normalizes err and writes a JSON error response.
func RespondWithError(w http.ResponseWriter, requestID string, err error) {
	coded := AsError(err)
	if coded == nil {
		coded = NewInternalError("unexpected nil error")
	}

	response := HTTPErrorResponse{
		Error: HTTPErrorDetail{
			Code:       coded.Code,
			Message:    coded.Message,
			StatusCode: coded.StatusCode,
			RequestID:  requestID,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusFromCode(coded.Code))
	_ = json.NewEncoder(w).Encode(response)
}
