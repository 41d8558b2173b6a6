package services

import (
	"fmt"
	"time"

	"github.com/asifzaman/kaajwala/apperr"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmitEstimate records or revises a worker's bid on an open booking.
// The booking row lock keeps a submission from racing the selection
// arbiter: once a worker is committed the status check here fails.
func SubmitEstimate(bookingID, workerID uuid.UUID, price float64, note *string) (*models.Estimate, error) {
	if price <= 0 {
		return nil, apperr.Validation("estimate price must be positive")
	}
	if _, err := assignableWorker(workerID); err != nil {
		return nil, err
	}

	var estimate models.Estimate
	var events []*models.Notification

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", bookingID).Error; err != nil {
			return database.AsAppError(err, "booking")
		}
		if booking.BookingType != models.TypeCallWorker {
			return apperr.InvalidState("only call_worker bookings take estimates")
		}
		if booking.Status != models.StatusPendingEstimation {
			return apperr.InvalidState("booking is no longer accepting estimates")
		}

		estimate = models.Estimate{
			BookingID:   bookingID,
			WorkerID:    workerID,
			Price:       price,
			Note:        note,
			Status:      models.EstimateLive,
			SubmittedAt: time.Now(),
		}
		// Returning scans the row that actually won the upsert back into
		// the struct, so a revision reports the existing row's id.
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "booking_id"}, {Name: "worker_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "note", "status", "submitted_at", "updated_at"}),
		}, clause.Returning{}).Create(&estimate).Error
		if err != nil {
			return apperr.Internal(err)
		}

		n, err := recordEvent(tx, booking.CustomerID, &booking.ID, models.EventEstimateSubmitted,
			fmt.Sprintf("A worker offered ৳%.2f on booking %s.", price, booking.BookingNumber))
		if err != nil {
			return apperr.Internal(err)
		}
		events = append(events, n)
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}

	pushEvents(events)
	return &estimate, nil
}

// ListEstimates returns the live pool in submission order.
func ListEstimates(bookingID uuid.UUID) ([]models.Estimate, error) {
	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, database.AsAppError(err, "booking")
	}

	var estimates []models.Estimate
	err := database.DB.Preload("Worker").
		Where("booking_id = ? AND status = ?", bookingID, models.EstimateLive).
		Order("submitted_at asc, id asc").
		Find(&estimates).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return estimates, nil
}
