package routes

import (
	"github.com/asifzaman/kaajwala/handlers"
	"github.com/asifzaman/kaajwala/middleware"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	notifications := api.Group("/notifications", middleware.Protected())
	notifications.Get("", handlers.ListNotifications)
	notifications.Post("/read", handlers.MarkNotificationsRead)

	app.Use("/ws", handlers.WebsocketUpgrade)
	app.Get("/ws", handlers.WebsocketHandler())
}
