package services

import (
	"github.com/asifzaman/kaajwala/models"
	"github.com/asifzaman/kaajwala/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recordEvent persists a notification inside the caller's transaction.
// Rows for the same booking are written while its row lock is held, so
// their insertion order is the transition commit order that polling
// clients rely on.
func recordEvent(tx *gorm.DB, recipientID uuid.UUID, bookingID *uuid.UUID, kind, message string) (*models.Notification, error) {
	n := &models.Notification{
		RecipientID: recipientID,
		BookingID:   bookingID,
		Kind:        kind,
		Message:     message,
	}
	if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// pushEvents fans committed notifications out over the websocket hub.
// Only call this after the enclosing transaction has committed.
func pushEvents(events []*models.Notification) {
	for _, n := range events {
		websocket.Push(n)
	}
}
