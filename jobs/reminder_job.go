package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/asifzaman/kaajwala/notifications"
	"github.com/asifzaman/kaajwala/websocket"
	"github.com/google/uuid"
)

// SendBookingReminders nudges both parties an hour before a slot-backed
// booking starts. Missing a run degrades nothing: the booking itself is
// the source of truth.
func SendBookingReminders() {
	log.Println("Running job: SendBookingReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingBookings []models.Booking
	err := database.DB.
		Preload("Customer").
		Preload("Worker").
		Preload("Slot").
		Where("bookings.status = ? AND slots.start_time BETWEEN ? AND ?", models.StatusAccepted, lowerBound, upperBound).
		Joins("JOIN slots ON bookings.slot_id = slots.id").
		Find(&upcomingBookings).Error
	if err != nil {
		log.Printf("Error checking for upcoming bookings: %v", err)
		return
	}

	for _, booking := range upcomingBookings {
		log.Printf("Sending reminder for booking %s", booking.BookingNumber)

		startAt := booking.Slot.StartTime.Format(time.Kitchen)
		emailSubject := "Reminder: Your Job Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Job Reminder</h1><p>Hi there,</p><p>Booking %s is scheduled to start in one hour at %s.</p><p><b>Location:</b> %s</p>",
			booking.BookingNumber, startAt, booking.LocationText,
		)

		go notifications.SendEmail(booking.Customer.FullName, booking.Customer.Email, emailSubject, emailBody)
		if booking.Worker != nil {
			go notifications.SendEmail(booking.Worker.FullName, booking.Worker.Email, emailSubject, emailBody)
		}

		message := fmt.Sprintf("Booking %s starts at %s.", booking.BookingNumber, startAt)
		for _, recipient := range reminderRecipients(&booking) {
			n := models.Notification{
				RecipientID: recipient,
				BookingID:   &booking.ID,
				Kind:        models.EventStatusChanged,
				Message:     message,
			}
			if err := database.DB.Create(&n).Error; err != nil {
				log.Printf("Error recording reminder notification: %v", err)
				continue
			}
			websocket.Push(&n)
		}
	}
}

func reminderRecipients(booking *models.Booking) []uuid.UUID {
	recipients := []uuid.UUID{booking.CustomerID}
	if booking.WorkerID != nil {
		recipients = append(recipients, *booking.WorkerID)
	}
	return recipients
}
