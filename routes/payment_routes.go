package routes

import (
	"github.com/asifzaman/kaajwala/handlers"
	"github.com/asifzaman/kaajwala/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Gateway callbacks carry their own idempotency key, not a JWT.
	api.Post("/payments/webhook/:gateway", handlers.HandleGatewayWebhook)

	payment := api.Group("/payments", middleware.Protected())
	payment.Post("/session", handlers.CreatePaymentSession)
	payment.Post("/preview", handlers.PreviewSettlement)
}
