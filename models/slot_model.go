package models

import (
	"time"

	"github.com/google/uuid"
)

// SlotDuration is the fixed length of every availability block.
const SlotDuration = 2 * time.Hour

type Slot struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	WorkerID  uuid.UUID  `gorm:"not null" json:"worker_id"`
	Date      time.Time  `gorm:"type:date;not null" json:"date"`
	StartTime time.Time  `gorm:"not null" json:"start_time"`
	Status    SlotStatus `gorm:"size:10;not null;default:'active'" json:"status"`

	Worker User `gorm:"foreignkey:WorkerID" json:"worker,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Slot) EndTime() time.Time {
	return s.StartTime.Add(SlotDuration)
}
