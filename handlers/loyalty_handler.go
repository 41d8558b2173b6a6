package handlers

import (
	"github.com/asifzaman/kaajwala/services"
	"github.com/gofiber/fiber/v2"
)

func GetMyLoyaltyBalance(c *fiber.Ctx) error {
	userID := currentUserID(c)

	balance, err := services.GetLoyaltyBalance(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"loyalty_points": balance})
}
