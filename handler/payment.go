package handler

import (
	"github.com/gofiber/fiber/v2"

	"venue_pos/model"
	"venue_pos/realtime"
)

// CreatePayment accepts anonymous callers as well as signed-in ones.
func (h *Handler) CreatePayment(c *fiber.Ctx) error {
	input, ok := locals[model.CreatePaymentInput](c, "inputCreatePayment")
	if !ok {
		return h.missingInput(c)
	}
	actor, err := h.optionalActor(c)
	if err != nil {
		return h.fail(c, err)
	}

	record, err := h.svc.Pay(c.UserContext(), actor, input.OrderId, input.Amount)
	if err != nil {
		return h.fail(c, err)
	}
	h.notifier.Notify(c.UserContext(), realtime.Paid(record))

	return c.JSON(record)
}

func (h *Handler) Payments(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	payments, err := h.svc.Payments(c.UserContext(), actor)
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]fiber.Map, 0, len(payments))
	for _, p := range payments {
		out = append(out, fiber.Map{
			"id":       p.ID,
			"order_id": p.OrderID,
			"amount":   p.Amount,
			"status":   p.Status,
		})
	}
	return c.JSON(out)
}

func (h *Handler) CreateRefund(c *fiber.Ctx) error {
	input, ok := locals[model.CreateRefundInput](c, "inputCreateRefund")
	if !ok {
		return h.missingInput(c)
	}
	actor, err := h.actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	record, err := h.svc.Refund(c.UserContext(), actor, input.OrderId)
	if err != nil {
		return h.fail(c, err)
	}
	h.notifier.Notify(c.UserContext(), realtime.Refunded(record))
	if h.mailer != nil {
		h.mailer.SendRefundNotice(record)
	}

	return c.JSON(record)
}
