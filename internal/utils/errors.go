package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
)

// APIError is the structured error every handler returns. Domain errors are
// recovered at the request boundary and turned into one of these; they never
// crash the process for one company's bad data.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewValidationError flags user-correctable input: malformed rows, unknown
// master account IDs, out-of-range driver values.
func NewValidationError(message string, details any) *APIError {
	return &APIError{
		StatusCode: fiber.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
		Message:    message,
		Details:    details,
	}
}

// NewNotFoundError is returned when an explicit identifier is required and absent
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		StatusCode: fiber.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
	}
}

// NewPreconditionError fails a single computation request whose inputs are
// not ready, e.g. a forecast run with no mapped actuals for the base period
func NewPreconditionError(message string) *APIError {
	return &APIError{
		StatusCode: fiber.StatusUnprocessableEntity,
		Code:       "PRECONDITION_FAILED",
		Message:    message,
	}
}

func NewInternalError(err error) *APIError {
	return &APIError{
		StatusCode: fiber.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    "An internal error occurred",
		Details:    err.Error(),
	}
}

// ErrorHandler converts APIError and fiber errors into the JSON error envelope
func ErrorHandler(c fiber.Ctx, err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			apiErr = &APIError{
				StatusCode: fiberErr.Code,
				Code:       "HTTP_ERROR",
				Message:    fiberErr.Message,
			}
		} else {
			apiErr = NewInternalError(err)
		}
	}

	return c.Status(apiErr.StatusCode).JSON(apiErr)
}
