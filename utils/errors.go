package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ValidationError reports missing or malformed caller input (HTTP 400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a referenced entity that does not exist (HTTP 404).
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ConflictError reports a uniqueness violation on concurrent creation.
// Callers are expected to retry the lookup instead of surfacing it.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AnalysisFormatError reports model output that could not be parsed or
// failed shape validation. Nothing is persisted when it occurs.
type AnalysisFormatError struct {
	Message string
}

func (e *AnalysisFormatError) Error() string { return e.Message }

// NewAnalysisFormatError builds an AnalysisFormatError with a formatted
// message.
func NewAnalysisFormatError(format string, args ...interface{}) *AnalysisFormatError {
	return &AnalysisFormatError{Message: fmt.Sprintf(format, args...)}
}

// RespondError translates a domain error into the HTTP error contract:
// 400 {error, message} for validation failures, 404 {error} for missing
// entities, 500 {error, message} for everything else. The fallback
// string becomes the error field for untyped failures.
func RespondError(c *fiber.Ctx, err error, fallback string) error {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		formatErr     *AnalysisFormatError
	)

	switch {
	case errors.As(err, &validationErr):
		return ErrorResponse(c, fiber.StatusBadRequest, "Missing required fields", err)
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFoundErr.Error(),
		})
	case errors.As(err, &formatErr):
		return ErrorResponse(c, fiber.StatusInternalServerError, "Gemini AI analysis failed", err)
	default:
		return ErrorResponse(c, fiber.StatusInternalServerError, fallback, err)
	}
}
