package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/asifzaman/kaajwala/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const estimationWindow = 24 * time.Hour

// ExpireStaleEstimationRequests cancels call_worker bookings nobody was
// selected for within the window. Each booking is closed under its own
// row lock so an in-flight selection wins over the expiry.
func ExpireStaleEstimationRequests() {
	log.Println("Running job: ExpireStaleEstimationRequests...")

	cutoff := time.Now().Add(-estimationWindow)

	var stale []models.Booking
	err := database.DB.
		Where("status = ? AND created_at < ?", models.StatusPendingEstimation, cutoff).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error finding stale estimation requests: %v", err)
		return
	}

	for _, candidate := range stale {
		var expired *models.Notification
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var booking models.Booking
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", candidate.ID).Error; err != nil {
				return err
			}
			if booking.Status != models.StatusPendingEstimation {
				return nil
			}

			reason := "No worker was selected within 24 hours."
			booking.Status = models.StatusCancelled
			booking.CancelReason = &reason
			if err := tx.Save(&booking).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.Estimate{}).
				Where("booking_id = ?", booking.ID).
				Update("status", models.EstimateVoid).Error; err != nil {
				return err
			}

			n := models.Notification{
				RecipientID: booking.CustomerID,
				BookingID:   &booking.ID,
				Kind:        models.EventStatusChanged,
				Message:     fmt.Sprintf("Booking %s expired: no worker was selected in time.", booking.BookingNumber),
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
			expired = &n
			return nil
		})
		if err != nil {
			log.Printf("Error expiring booking %s: %v", candidate.BookingNumber, err)
			continue
		}
		if expired != nil {
			websocket.Push(expired)
		}
	}
}
