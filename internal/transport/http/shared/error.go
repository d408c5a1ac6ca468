// Package shared centralizes domain error translation to HTTP responses.
package shared

import (
	"errors"
	"net/http"
	"strconv"

	"formgate/internal/sanitize"
	"formgate/internal/transport/http/json"
	dErrors "formgate/pkg/domain-errors"
)

// ErrorResponse is the JSON shape for every non-2xx response.
type ErrorResponse struct {
	Error            string                `json:"error"`
	ErrorDescription string                `json:"error_description,omitempty"`
	Fields           []sanitize.FieldError `json:"fields,omitempty"`
}

// WriteError translates a domain error into an HTTP status and JSON body.
// Internal failures pass through the safe formatter so persistence detail
// never leaks to the client.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorFields(w, err, nil)
}

// WriteErrorFields is WriteError with a per-field breakdown attached, used
// for validation failures.
func WriteErrorFields(w http.ResponseWriter, err error, fields []sanitize.FieldError) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		json.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:            string(dErrors.CodeInternal),
			ErrorDescription: "internal error",
		})
		return
	}

	res := ErrorResponse{
		Error:  string(domainErr.Code),
		Fields: fields,
	}
	switch domainErr.Code {
	case dErrors.CodePersistenceFailure, dErrors.CodeInternal:
		res.ErrorDescription = sanitize.SafeError(domainErr.Message, nil).Message
	default:
		res.ErrorDescription = domainErr.Message
	}

	json.WriteJSON(w, StatusForCode(domainErr.Code), res)
}

// StatusForCode maps domain error codes to HTTP status codes.
func StatusForCode(code dErrors.Code) int {
	switch code {
	case dErrors.CodeThrottleExceeded:
		return http.StatusTooManyRequests
	case dErrors.CodeTokenInvalid:
		return http.StatusForbidden
	case dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case dErrors.CodePersistenceFailure, dErrors.CodeInternal, dErrors.CodeInvariantViolation:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// RetryAfterValue formats a Retry-After header value from whole seconds.
func RetryAfterValue(seconds int) string {
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
