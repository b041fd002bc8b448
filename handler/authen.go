package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"venue_pos/constants"
	"venue_pos/database"
	"venue_pos/helper"
	"venue_pos/model"
	"venue_pos/utils"
)

func (h *Handler) Login(c *fiber.Ctx) error {
	input, ok := locals[model.LoginInput](c, "inputLogin")
	if !ok {
		return h.missingInput(c)
	}

	account, err := h.office.AccountByUsername(c.UserContext(), input.Username)
	if err != nil {
		return h.internal(c, err)
	}
	if account == nil || !helper.CheckPasswordHash(input.Password, account.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS, nil)
	}
	if !account.Active {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_ACTIVE, nil)
	}

	token, err := h.issue(account)
	if err != nil {
		return h.internal(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(h.jwt.TTL.Seconds()),
	})

	return c.JSON(fiber.Map{
		"access_token": token,
		"role":         account.Role,
		"table_number": account.TableNumber,
	})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	c.ClearCookie("access_token")
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Register creates a table-role account with no table binding.
func (h *Handler) Register(c *fiber.Ctx) error {
	input, ok := locals[model.RegisterInput](c, "inputRegister")
	if !ok {
		return h.missingInput(c)
	}

	account, err := h.createAccount(c, input, model.RoleTable, nil)
	if err != nil {
		return h.accountError(c, err, nil)
	}
	token, err := h.issue(account)
	if err != nil {
		return h.internal(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      constants.USER_CREATED,
		"access_token": token,
		"role":         account.Role,
	})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	account, err := h.office.AccountByID(c.UserContext(), actor.AccountID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(account)
}

func (h *Handler) Users(c *fiber.Ctx) error {
	accounts, err := h.office.Accounts(c.UserContext())
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(accounts)
}

func (h *Handler) CreateStaff(c *fiber.Ctx) error {
	input, ok := locals[model.RegisterInput](c, "inputCreateStaff")
	if !ok {
		return h.missingInput(c)
	}

	account, err := h.createAccount(c, input, model.RoleStaff, nil)
	if err != nil {
		return h.accountError(c, err, nil)
	}
	h.log.Info("staff account created", zap.Uint("account_id", account.ID), zap.String("username", account.Username))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": constants.STAFF_CREATED, "id": account.ID})
}

func (h *Handler) createAccount(c *fiber.Ctx, input model.RegisterInput, role model.Role, table *int) (*model.Account, error) {
	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Username:    input.Username,
		Password:    hash,
		Role:        role,
		TableNumber: table,
		Active:      true,
	}
	if err := h.office.CreateAccount(c.UserContext(), account); err != nil {
		return nil, err
	}
	return account, nil
}

func (h *Handler) accountError(c *fiber.Ctx, err error, table *int) error {
	switch {
	case errors.Is(err, database.ErrUsernameTaken):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.USERNAME_EXISTS, nil)
	case errors.Is(err, database.ErrTableTaken) && table != nil:
		return utils.ErrorResponse(c, fiber.StatusBadRequest, fmt.Sprintf(constants.TABLE_EXISTS, *table), nil)
	}
	return h.internal(c, err)
}

func (h *Handler) issue(account *model.Account) (string, error) {
	return h.jwt.GenerateAccessToken(model.TokenClaim{
		AccountId:   account.ID,
		Username:    account.Username,
		Role:        account.Role,
		TableNumber: account.TableNumber,
	})
}
