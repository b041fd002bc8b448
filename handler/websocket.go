package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UpgradeFeed only lets websocket handshakes through to OrderFeed.
func (h *Handler) UpgradeFeed(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// OrderFeed streams live order events until the client disconnects.
func (h *Handler) OrderFeed() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.hub.Register(conn)
		h.log.Debug("feed client connected", zap.Int("clients", h.hub.Len()))
		defer func() {
			h.hub.Unregister(conn)
			conn.Close()
		}()

		// Reads only detect the disconnect; clients send nothing meaningful.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
