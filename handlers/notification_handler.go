package handlers

import (
	"strconv"
	"time"

	"github.com/asifzaman/kaajwala/apperr"
	config "github.com/asifzaman/kaajwala/configs"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/asifzaman/kaajwala/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ListNotifications is the polling fallback: the same events the push
// channel carries, in per-booking commit order. The `after` cursor lets
// a client resume from the last id it saw.
func ListNotifications(c *fiber.Ctx) error {
	userID := currentUserID(c)

	after, _ := strconv.Atoi(c.Query("after", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var notifs []models.Notification
	database.DB.
		Where("recipient_id = ? AND id > ?", userID, after).
		Order("id asc").
		Limit(limit).
		Find(&notifs)

	return c.JSON(notifs)
}

type MarkReadRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1"`
}

func MarkNotificationsRead(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, apperr.Validation("%v", err))
	}

	now := time.Now()
	database.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND id IN ? AND read_at IS NULL", userID, req.IDs).
		Update("read_at", now)

	return c.JSON(fiber.Map{"message": "Notifications marked as read."})
}

// WebsocketUpgrade gates the ws route: the token comes as a query param
// because browsers cannot set headers on websocket dials.
func WebsocketUpgrade(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenStr := c.Query("token")
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return fiber.ErrUnauthorized
	}

	claims := token.Claims.(jwt.MapClaims)
	userID, err := uuid.Parse(claims["user_id"].(string))
	if err != nil {
		return fiber.ErrUnauthorized
	}

	c.Locals("ws_user_id", userID)
	return c.Next()
}

func WebsocketHandler() fiber.Handler {
	return websocketcontrib.New(func(conn *websocketcontrib.Conn) {
		userID := conn.Locals("ws_user_id").(uuid.UUID)

		client := &websocket.Client{UserID: userID, Conn: conn}
		websocket.Register <- client
		defer func() {
			websocket.Unregister <- client
		}()

		// Reads only keep the connection alive; pushes are one-way.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}
