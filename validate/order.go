package validate

import (
	"github.com/gofiber/fiber/v2"

	"venue_pos/model"
)

func CreateOrder() fiber.Handler {
	return body[model.CreateOrderInput]("inputCreateOrder")
}

func UpdateStatus() fiber.Handler {
	return body[model.UpdateStatusInput]("inputUpdateStatus")
}

func CreatePayment() fiber.Handler {
	return body[model.CreatePaymentInput]("inputCreatePayment")
}

func CreateRefund() fiber.Handler {
	return body[model.CreateRefundInput]("inputCreateRefund")
}
