package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"venue_pos/constants"
	"venue_pos/helper"
	"venue_pos/model"
	"venue_pos/utils"
)

func (h *Handler) CreateTable(c *fiber.Ctx) error {
	input, ok := locals[model.CreateTableInput](c, "inputCreateTable")
	if !ok {
		return h.missingInput(c)
	}

	table := input.TableNumber
	username := fmt.Sprintf("table%d", table)
	_, err := h.createAccount(c, model.RegisterInput{Username: username, Password: h.settings.TablePassword}, model.RoleTable, &table)
	if err != nil {
		return h.accountError(c, err, &table)
	}
	h.log.Info("table created", zap.Int("table_number", table))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  fmt.Sprintf("Table %d created successfully", table),
		"username": username,
		"password": h.settings.TablePassword,
	})
}

func (h *Handler) DeleteTable(c *fiber.Ctx) error {
	table, err := strconv.Atoi(c.Params("number"))
	if err != nil || table <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, nil)
	}

	deleted, err := h.office.DeleteTable(c.UserContext(), table)
	if err != nil {
		return h.internal(c, err)
	}
	if !deleted {
		return utils.ErrorResponse(c, fiber.StatusNotFound, fmt.Sprintf("Table %d not found", table), nil)
	}
	h.log.Info("table deleted", zap.Int("table_number", table))

	return c.JSON(fiber.Map{"message": fmt.Sprintf("Table %d deleted successfully", table)})
}

// TableQR renders the PNG a table's guests scan to sign in.
func (h *Handler) TableQR(c *fiber.Ctx) error {
	table, err := strconv.Atoi(c.Params("number"))
	if err != nil || table <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, nil)
	}

	account, err := h.office.AccountByTable(c.UserContext(), table)
	if err != nil {
		return h.internal(c, err)
	}
	if account == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TABLE_NOT_FOUND, nil)
	}

	token := helper.IssueTableToken(table, h.now())
	png, err := utils.GenerateQRCode(helper.TableQRURL(h.settings.AppURL, table, token), utils.QRSize)
	if err != nil {
		return h.internal(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set("X-Table-Token", token)
	return c.Send(png)
}

// QRAuth trades a scanned table token for an access token bound to the table.
func (h *Handler) QRAuth(c *fiber.Ctx) error {
	input, ok := locals[model.QRAuthInput](c, "inputQRAuth")
	if !ok {
		return h.missingInput(c)
	}

	table := int(input.TableNumber)
	err := helper.VerifyTableToken(input.Token, table, h.now(), h.settings.QRTokenMaxAge)
	switch {
	case errors.Is(err, helper.ErrTableTokenExpired):
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.TOKEN_EXPIRED, nil)
	case err != nil:
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}

	account, err := h.office.AccountByTable(c.UserContext(), table)
	if err != nil {
		return h.internal(c, err)
	}
	if account == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TABLE_NOT_FOUND, nil)
	}
	if !account.Active {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_ACTIVE, nil)
	}

	token, err := h.issue(account)
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(fiber.Map{
		"access_token": token,
		"role":         model.RoleTable,
		"table_number": table,
	})
}
