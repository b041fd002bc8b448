package validate

import (
	"github.com/gofiber/fiber/v2"

	"venue_pos/model"
)

func Login() fiber.Handler {
	return body[model.LoginInput]("inputLogin")
}

func Register() fiber.Handler {
	return body[model.RegisterInput]("inputRegister")
}

// CreateStaff takes the same username/password pair as Register.
func CreateStaff() fiber.Handler {
	return body[model.RegisterInput]("inputCreateStaff")
}

func CreateTable() fiber.Handler {
	return body[model.CreateTableInput]("inputCreateTable")
}

func QRAuth() fiber.Handler {
	return body[model.QRAuthInput]("inputQRAuth")
}
