package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"venue_pos/handler"
	"venue_pos/helper"
	"venue_pos/middleware"
	"venue_pos/model"
	"venue_pos/validate"
)

func SetupRoutes(app *fiber.App, h *handler.Handler, jwt *helper.JWT) {
	protected := middleware.Protected(jwt)
	optional := middleware.OptionalJWT(jwt)

	auth := app.Group("/auth", logger.New())
	auth.Post("/login", validate.Login(), h.Login)
	auth.Post("/logout", h.Logout)
	auth.Post("/register", validate.Register(), h.Register)
	auth.Post("/qr", validate.QRAuth(), h.QRAuth)
	auth.Get("/me", protected, h.Me)
	auth.Get("/users", protected, middleware.Allow(model.OpManageAccounts), h.Users)
	auth.Post("/create-staff", protected, middleware.Allow(model.OpManageAccounts), validate.CreateStaff(), h.CreateStaff)
	auth.Post("/tables", protected, middleware.Allow(model.OpManageAccounts), validate.CreateTable(), h.CreateTable)
	auth.Delete("/tables/:number", protected, middleware.Allow(model.OpManageAccounts), h.DeleteTable)

	menu := app.Group("/menu", logger.New())
	menu.Get("/", h.Menu)
	menu.Get("/:slug", h.MenuEntry)
	menu.Post("/", protected, middleware.Allow(model.OpManageMenu), validate.CreateMenuEntry(), h.CreateMenuEntry)
	menu.Put("/:id", protected, middleware.Allow(model.OpManageMenu), validate.GetById("id"), validate.UpdateMenuEntry(), h.UpdateMenuEntry)
	menu.Post("/:id/image", protected, middleware.Allow(model.OpManageMenu), validate.GetById("id"), h.UploadMenuImage)

	orders := app.Group("/orders", logger.New())
	orders.Post("/", protected, validate.CreateOrder(), h.CreateOrder)
	orders.Get("/", protected, h.Orders)
	orders.Get("/:id", optional, validate.GetById("id"), h.Order)
	orders.Put("/:id/status", protected, validate.GetById("id"), validate.UpdateStatus(), h.UpdateOrderStatus)

	payments := app.Group("/payments", logger.New())
	payments.Post("/", optional, validate.CreatePayment(), h.CreatePayment)
	payments.Get("/", protected, middleware.Allow(model.OpViewPayments), h.Payments)

	app.Post("/refunds", logger.New(), protected, middleware.Allow(model.OpRefund), validate.CreateRefund(), h.CreateRefund)

	app.Get("/tables/:number/qr", logger.New(), protected, middleware.Allow(model.OpManageAccounts), h.TableQR)
	app.Get("/reports/daily", logger.New(), protected, middleware.Allow(model.OpViewReports), h.DailyReport)

	app.Get("/ws/orders", protected, middleware.Allow(model.OpWatchFeed), h.UpgradeFeed, h.OrderFeed())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
