// Package response holds the JSON envelope every /api endpoint answers with.
package response

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	DefaultSuccessMessage = "Success"
	DefaultErrorMessage   = "Failed"
)

// Envelope is the success shape: {code, status, message, data}. Data is
// always present, null when there is nothing to return.
type Envelope struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorEnvelope is the failure shape: {code, status, message, errors?}.
type ErrorEnvelope struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

// NewSuccess builds a success envelope; an empty message falls back to the default.
func NewSuccess(code int, message string, data any) Envelope {
	if message == "" {
		message = DefaultSuccessMessage
	}
	return Envelope{Code: code, Status: StatusSuccess, Message: message, Data: data}
}

// NewError builds an error envelope; an empty message falls back to the default.
func NewError(code int, message string, errs any) ErrorEnvelope {
	if message == "" {
		message = DefaultErrorMessage
	}
	return ErrorEnvelope{Code: code, Status: StatusError, Message: message, Errors: errs}
}

// Success writes a success envelope with HTTP status code.
func Success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, NewSuccess(code, message, data))
}

// Error writes an error envelope with HTTP status code.
func Error(c echo.Context, code int, message string, errs any) error {
	return c.JSON(code, NewError(code, message, errs))
}

// ValidationError reports request fields that failed validation. The error
// handler answers it with 422 and the field messages under "errors".
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}
