package models

import (
	"time"

	"github.com/google/uuid"
)

// Estimate is one worker's bid on an open call_worker booking. At most
// one row per (booking, worker); resubmission overwrites it.
type Estimate struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID uuid.UUID      `gorm:"not null;uniqueIndex:idx_estimates_booking_worker" json:"booking_id"`
	WorkerID  uuid.UUID      `gorm:"not null;uniqueIndex:idx_estimates_booking_worker" json:"worker_id"`
	Price     float64        `gorm:"type:numeric(10,2);not null" json:"price"`
	Note      *string        `gorm:"type:text" json:"note"`
	Status    EstimateStatus `gorm:"size:10;not null;default:'live'" json:"status"`

	Worker User `gorm:"foreignkey:WorkerID" json:"worker,omitempty"`

	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
