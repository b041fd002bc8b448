package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"venue_pos/constants"
	"venue_pos/helper"
	"venue_pos/model"
	"venue_pos/service"
	"venue_pos/utils"
)

const claimKey = "claim"

// Protected requires a valid access token from the access_token cookie, the
// Authorization header or, for websocket upgrades, the token query parameter.
func Protected(jwt *helper.JWT) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFrom(c)
		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, nil)
		}

		claim, err := jwt.ParseToken(token)
		if errors.Is(err, helper.ErrTokenExpired) {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.TOKEN_EXPIRED, nil)
		}
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
		}

		c.Locals(claimKey, claim)
		return c.Next()
	}
}

// OptionalJWT attaches the claim when a valid token is present and lets the
// request through either way.
func OptionalJWT(jwt *helper.JWT) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := tokenFrom(c); token != "" {
			if claim, err := jwt.ParseToken(token); err == nil {
				c.Locals(claimKey, claim)
			}
		}
		return c.Next()
	}
}

// Allow rejects callers whose role lacks op. It must run after Protected.
func Allow(op model.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, ok := Claim(c)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, nil)
		}
		if !claim.Role.Can(op) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, fiber.Map{"code": service.KindUnauthorized})
		}
		return c.Next()
	}
}

func Claim(c *fiber.Ctx) (model.TokenClaim, bool) {
	claim, ok := c.Locals(claimKey).(model.TokenClaim)
	return claim, ok
}

func tokenFrom(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	return c.Query("token")
}
