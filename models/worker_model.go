package models

import (
	"time"

	"github.com/google/uuid"
)

type WorkerProfile struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID `gorm:"not null;unique" json:"user_id"`
	Headline        *string   `gorm:"size:255" json:"headline"`
	Bio             *string   `gorm:"type:text" json:"bio"`
	ServiceCategory string    `gorm:"size:100;not null" json:"service_category"`
	HourlyRate      float64   `gorm:"type:numeric(10,2);not null" json:"hourly_rate"`

	// Verified is flipped by an admin after the external NID/face check
	// passes. Unverified workers cannot be assigned jobs.
	Verified    bool    `gorm:"default:false" json:"verified"`
	NIDImageURL *string `gorm:"size:255" json:"-"`

	CurrentBalance float64 `gorm:"type:numeric(10,2);default:0.00" json:"current_balance"`
	AvgRating      float64 `gorm:"type:numeric(3,2);default:0.00" json:"avg_rating"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
