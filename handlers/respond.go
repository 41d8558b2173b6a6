package handlers

import (
	"errors"
	"log"

	"github.com/asifzaman/kaajwala/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// currentUserID pulls the authenticated user's id out of the JWT claims.
func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	return userID
}

// respondError renders a service error in the standard envelope. The
// error code tells the client whether to fix input, give up, or retry.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}
	if appErr.Code == apperr.CodeInternal {
		log.Printf("[ERROR] %v | Path: %s | Method: %s", appErr, c.Path(), c.Method())
	}

	body := fiber.Map{
		"status":  "error",
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.RetryAfter > 0 {
		body["retry_after_seconds"] = int(appErr.RetryAfter.Seconds())
	}
	return c.Status(appErr.HTTPStatus).JSON(body)
}
