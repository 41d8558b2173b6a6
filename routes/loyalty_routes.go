package routes

import (
	"github.com/asifzaman/kaajwala/handlers"
	"github.com/asifzaman/kaajwala/middleware"
	"github.com/gofiber/fiber/v2"
)

func LoyaltyRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	loyalty := api.Group("/loyalty", middleware.Protected())
	loyalty.Get("/me", handlers.GetMyLoyaltyBalance)
}
