package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"venue_pos/constants"
	"venue_pos/model"
	"venue_pos/utils"
)

func (h *Handler) Menu(c *fiber.Ctx) error {
	entries, err := h.svc.Menu(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(entries)
}

func (h *Handler) MenuEntry(c *fiber.Ctx) error {
	entry, err := h.svc.MenuEntry(c.UserContext(), c.Params("slug"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(entry)
}

func (h *Handler) CreateMenuEntry(c *fiber.Ctx) error {
	input, ok := locals[model.CreateMenuEntryInput](c, "inputCreateMenuEntry")
	if !ok {
		return h.missingInput(c)
	}
	actor, err := h.actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	entry, err := h.svc.CreateMenuEntry(c.UserContext(), actor, input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *Handler) UpdateMenuEntry(c *fiber.Ctx) error {
	id, _ := locals[uint](c, "inputId")
	input, ok := locals[model.UpdateMenuEntryInput](c, "inputUpdateMenuEntry")
	if !ok {
		return h.missingInput(c)
	}
	actor, err := h.actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	entry, err := h.svc.UpdateMenuEntry(c.UserContext(), actor, id, input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(entry)
}

// UploadMenuImage stores the multipart "image" file and links it to the entry.
func (h *Handler) UploadMenuImage(c *fiber.Ctx) error {
	if h.uploader == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.IMAGE_UPLOAD_DISABLED, nil)
	}
	id, _ := locals[uint](c, "inputId")
	actor, err := h.actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	header, err := c.FormFile("image")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.IMAGE_REQUIRED, nil)
	}
	file, err := header.Open()
	if err != nil {
		return h.internal(c, err)
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.UserContext(), file, fmt.Sprintf("menu-%d", id))
	if err != nil {
		return h.internal(c, err)
	}

	entry, err := h.svc.SetMenuImage(c.UserContext(), actor, id, url)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(entry)
}
