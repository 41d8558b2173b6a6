package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentTransaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID uuid.UUID `gorm:"not null" json:"booking_id"`
	Gateway   string    `gorm:"size:20;not null" json:"gateway"`

	// ExternalID is the gateway's payment id. Uniqueness is what makes
	// confirmation idempotent across retried callbacks.
	ExternalID *string `gorm:"size:255;unique" json:"external_id"`
	SessionID  *string `gorm:"size:255;unique" json:"session_id"`

	Amount         float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	PointsRedeemed int       `gorm:"not null;default:0" json:"points_redeemed"`
	Status         TxnStatus `gorm:"size:10;not null" json:"status"`
	ReceiptURL     *string   `gorm:"size:255" json:"receipt_url"`

	Booking Booking `gorm:"foreignkey:BookingID" json:"booking,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
