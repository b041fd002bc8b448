package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"venue_pos/constants"
	"venue_pos/service"
	"venue_pos/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func GetById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParamUint(c, key)
		if !ok {
			return invalidInput(c, constants.DATA_INPUT_IS_NOT_NUMBER)
		}

		c.Locals("inputId", id)
		return c.Next()
	}
}

// body parses the request JSON into T, runs the struct tags and stores the
// result under key.
func body[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input T
		if err := c.BodyParser(&input); err != nil {
			return invalidInput(c, fmt.Sprintf("%s: %s", constants.ERROR_INPUT, err.Error()))
		}

		if err := validate.Struct(input); err != nil {
			return invalidInput(c, describe(err))
		}

		c.Locals(key, input)
		return c.Next()
	}
}

func invalidInput(c *fiber.Ctx, message string) error {
	return utils.ErrorResponse(c, fiber.StatusBadRequest, message, fiber.Map{"code": service.KindValidation})
}

// describe flattens validator errors into one readable line.
func describe(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "min", "max", "gt", "gte":
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(parts, "; ")
}
