package serverutils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest validates a bound DTO and converts failures into a 400.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0]
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Field '%s' failed on '%s' validation", field.Field(), field.Tag()))
	}
	return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
}
