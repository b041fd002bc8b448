package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"venue_pos/constants"
	"venue_pos/database"
	"venue_pos/utils"
)

// DailyReport totals one UTC day; date defaults to today.
func (h *Handler) DailyReport(c *fiber.Ctx) error {
	day := h.now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(database.DateLayout, raw)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_DATE, nil)
		}
		day = parsed
	}

	summary, err := h.office.DailySummary(c.UserContext(), day)
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(fiber.Map{
		"date":           summary.Date,
		"orders_placed":  summary.OrdersPlaced,
		"payments_count": summary.PaymentsCount,
		"payments_total": summary.PaymentsTotal,
		"refunds_count":  summary.RefundsCount,
		"refunds_total":  summary.RefundsTotal,
		"net":            summary.Net(),
	})
}
