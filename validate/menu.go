package validate

import (
	"github.com/gofiber/fiber/v2"

	"venue_pos/model"
)

func CreateMenuEntry() fiber.Handler {
	return body[model.CreateMenuEntryInput]("inputCreateMenuEntry")
}

func UpdateMenuEntry() fiber.Handler {
	return body[model.UpdateMenuEntryInput]("inputUpdateMenuEntry")
}
