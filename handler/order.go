package handler

import (
	"github.com/gofiber/fiber/v2"

	"venue_pos/constants"
	"venue_pos/model"
	"venue_pos/realtime"
	"venue_pos/service"
	"venue_pos/utils"
)

func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	input, ok := locals[model.CreateOrderInput](c, "inputCreateOrder")
	if !ok {
		return h.missingInput(c)
	}
	actor, err := h.actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	items := make([]service.ItemRequest, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, service.ItemRequest{ItemID: item.ID, Quantity: item.Quantity})
	}

	order, err := h.svc.PlaceOrder(c.UserContext(), actor, items)
	if err != nil {
		return h.fail(c, err)
	}
	h.notifier.Notify(c.UserContext(), realtime.OrderPlaced(order))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     constants.ORDER_CREATED,
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
	})
}

func (h *Handler) Orders(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	orders, err := h.svc.Orders(c.UserContext(), actor)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(orders)
}

// Order is open to anonymous callers. A signed-in table asking for another
// table's order gets 404.
func (h *Handler) Order(c *fiber.Ctx) error {
	id, _ := locals[uint](c, "inputId")
	actor, err := h.optionalActor(c)
	if err != nil {
		return h.fail(c, err)
	}

	order, err := h.svc.Order(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if actor != nil && !actor.Can(model.OpViewAllOrders) && !actor.Owns(order) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Order not found", fiber.Map{"code": service.KindNotFound})
	}
	return c.JSON(order)
}

func (h *Handler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, _ := locals[uint](c, "inputId")
	input, ok := locals[model.UpdateStatusInput](c, "inputUpdateStatus")
	if !ok {
		return h.missingInput(c)
	}
	actor, err := h.actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	order, err := h.svc.UpdateStatus(c.UserContext(), actor, id, input.Status)
	if err != nil {
		return h.fail(c, err)
	}
	h.notifier.Notify(c.UserContext(), realtime.StatusChanged(order))

	return c.JSON(fiber.Map{
		"id":         order.ID,
		"status":     order.Status,
		"staff_id":   order.StaffID,
		"staff_name": order.StaffName(),
	})
}

