package utils

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"venue_pos/constants"
	"venue_pos/service"
)

// ErrorResponse writes {"error": message} plus any extra fields.
func ErrorResponse(c *fiber.Ctx, status int, message string, extra fiber.Map) error {
	body := fiber.Map{"error": message}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// StatusFor maps a core error kind to its HTTP status.
func StatusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation,
		service.KindInsufficientStock,
		service.KindInsufficientAmount,
		service.KindAlreadyPaid,
		service.KindNotPending,
		service.KindNotRefundable,
		service.KindNoPayment:
		return fiber.StatusBadRequest
	case service.KindUnauthorized:
		return fiber.StatusForbidden
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindInvalidTransition:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// ServiceError answers a failed core call. Anything that is not a core error
// is logged and reported as a bare internal error.
func ServiceError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var e *service.Error
	if !errors.As(err, &e) {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	extra := fiber.Map{"code": e.Kind}
	for k, v := range e.Details {
		extra[k] = v
	}
	return ErrorResponse(c, StatusFor(e.Kind), e.Error(), extra)
}

// ParamUint reads a positive integer route parameter.
func ParamUint(c *fiber.Ctx, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
