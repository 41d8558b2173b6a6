package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingNumber string    `gorm:"size:30;not null;unique" json:"booking_number"`

	CustomerID uuid.UUID  `gorm:"not null" json:"customer_id"`
	WorkerID   *uuid.UUID `json:"worker_id"`

	BookingType   BookingType   `gorm:"size:20;not null" json:"booking_type"`
	Status        BookingStatus `gorm:"size:30;not null" json:"status"`
	PaymentMethod PaymentMethod `gorm:"size:10;not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"size:10;not null;default:'pending'" json:"payment_status"`

	Description  string   `gorm:"type:text;not null" json:"description"`
	LocationText string   `gorm:"size:255;not null" json:"location_text"`
	Latitude     *float64 `gorm:"type:numeric(10,7)" json:"latitude"`
	Longitude    *float64 `gorm:"type:numeric(10,7)" json:"longitude"`

	EstimatedPrice *float64 `gorm:"type:numeric(10,2)" json:"estimated_price"`
	FinalPrice     *float64 `gorm:"type:numeric(10,2)" json:"final_price"`

	// Either a slot reference or ad-hoc schedule fields, never both.
	SlotID        *uuid.UUID `json:"slot_id"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	ScheduledTime *string    `gorm:"size:10" json:"scheduled_time"`

	CancelReason *string `gorm:"type:text" json:"cancel_reason"`
	RejectReason *string `gorm:"type:text" json:"reject_reason"`

	Customer User  `gorm:"foreignkey:CustomerID" json:"customer,omitempty"`
	Worker   *User `gorm:"foreignkey:WorkerID" json:"worker,omitempty"`
	Slot     *Slot `gorm:"foreignkey:SlotID" json:"slot,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
