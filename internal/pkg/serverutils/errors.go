package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError carries an HTTP status alongside a user-safe message.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Well-known application errors.
var (
	// ErrContextMissing rejects requests whose academic scope headers are
	// absent. This is the only hard pre-pipeline rejection.
	ErrContextMissing = NewAppError(fiber.StatusUnprocessableEntity, "Missing academic context (faculty/semester)")

	ErrUnauthorized = NewAppError(fiber.StatusUnauthorized, "Missing user identity")
	ErrForbidden    = NewAppError(fiber.StatusForbidden, "Teacher role required")
	ErrNotFound     = NewAppError(fiber.StatusNotFound, "Resource not found")
)

// ErrorHandlerMiddleware converts handler errors into the response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return ErrorHandler(ctx, err)
	}
}

// ErrorHandler maps errors returned from handlers to the response envelope.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ctx.Status(appErr.Code).JSON(ErrorResponse(appErr.Code, appErr.Message))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}
