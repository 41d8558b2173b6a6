package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventEstimateSubmitted = "estimate.submitted"
	EventWorkerSelected    = "worker.selected"
	EventStatusChanged     = "booking.status_changed"
	EventBookingCompleted  = "booking.completed"
	EventPaymentConfirmed  = "payment.confirmed"
)

// Notification is written in the same transaction as the change it
// announces, so polling clients see events for one booking in commit
// order. The numeric key doubles as the sequence.
type Notification struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID uuid.UUID  `gorm:"not null;index" json:"recipient_id"`
	BookingID   *uuid.UUID `gorm:"index" json:"booking_id"`
	Kind        string     `gorm:"size:40;not null" json:"kind"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
