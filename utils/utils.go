package utils

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse creates a standardized error response
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	response := fiber.Map{
		"error": message,
	}
	if err != nil {
		response["message"] = err.Error()
	}
	return c.Status(status).JSON(response)
}

// SuccessResponse creates a standardized success response with the
// payload stored under the given key
func SuccessResponse(key string, data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		key:       data,
	}
}

// ParseUint safely parses a string to uint
func ParseUint(s string) uint {
	i, _ := strconv.ParseUint(s, 10, 32)
	return uint(i)
}

// FormatSessionDuration renders a duration in seconds as "3m 25s" for
// prompt embedding
func FormatSessionDuration(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// Pointer returns a pointer to the given value
func Pointer[T any](v T) *T {
	return &v
}
