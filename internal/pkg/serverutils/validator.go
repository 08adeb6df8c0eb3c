package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts the first failure
// into a 400 with a readable field message.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
		first := validationErrs[0]
		return NewAppError(fiber.StatusBadRequest,
			fmt.Sprintf("Field '%s' failed on '%s' validation", first.Field(), first.Tag()))
	}

	return NewAppError(fiber.StatusBadRequest, "Invalid request body")
}
