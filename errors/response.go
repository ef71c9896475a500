package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorResponse is the JSON structure returned by the inspection endpoints.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to clients.
type ErrorBody struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Fatal   bool           `json:"fatal"`
	Details map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:    e.Code,
			Message: e.Message,
			Fatal:   e.Fatal,
			Details: e.Details,
		},
	}
}

var httpStatuses = map[ErrorCode]int{
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeInvalidConfig:     http.StatusBadRequest,
	ErrCodeInvalidClass:      http.StatusBadRequest,
	ErrCodeUnknownNamespace:  http.StatusNotFound,
	ErrCodeMixedStrategy:     http.StatusConflict,
	ErrCodeTypeMismatch:      http.StatusConflict,
	ErrCodeMissingDependency: http.StatusFailedDependency,
}

// HTTPStatus maps the error code to an HTTP status; unmapped codes are 500.
func (e *AppError) HTTPStatus() int {
	if status, ok := httpStatuses[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsFatal reports whether err is an AppError marked fatal.
func IsFatal(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Fatal
}
