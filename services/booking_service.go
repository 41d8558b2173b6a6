package services

import (
	"fmt"
	"log"
	"time"

	"github.com/asifzaman/kaajwala/apperr"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/asifzaman/kaajwala/notifications"
	"github.com/asifzaman/kaajwala/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateBookingInput struct {
	BookingType   models.BookingType
	WorkerID      *uuid.UUID
	Description   string
	LocationText  string
	Latitude      *float64
	Longitude     *float64
	PaymentMethod models.PaymentMethod
	SlotID        *uuid.UUID
	ScheduledDate *time.Time
	ScheduledTime *string
}

// CreateBooking opens a new booking for the customer. Direct bookings
// (instant/scheduled) are pinned to a worker and priced off their hourly
// rate; call_worker bookings start open, unpriced, in pending_estimation.
func CreateBooking(customerID uuid.UUID, in CreateBookingInput) (*models.Booking, error) {
	if in.Description == "" {
		return nil, apperr.Validation("description is required")
	}
	if in.LocationText == "" {
		return nil, apperr.Validation("location is required")
	}
	if !in.PaymentMethod.IsValid() {
		return nil, apperr.Validation("payment_method must be cash or online")
	}
	if !in.BookingType.IsValid() {
		return nil, apperr.Validation("unknown booking type %q", in.BookingType)
	}
	if in.SlotID != nil && (in.ScheduledDate != nil || in.ScheduledTime != nil) {
		return nil, apperr.Validation("a slot reference and ad-hoc schedule fields are mutually exclusive")
	}

	booking := models.Booking{
		CustomerID:    customerID,
		BookingType:   in.BookingType,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		Description:   in.Description,
		LocationText:  in.LocationText,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		ScheduledDate: in.ScheduledDate,
		ScheduledTime: in.ScheduledTime,
	}

	if in.BookingType == models.TypeCallWorker {
		if in.WorkerID != nil {
			return nil, apperr.Validation("call_worker bookings cannot name a worker")
		}
		if in.SlotID != nil {
			return nil, apperr.Validation("call_worker bookings cannot reference a slot")
		}
		booking.Status = models.StatusPendingEstimation
	} else {
		if in.WorkerID == nil {
			return nil, apperr.Validation("worker_id is required for %s bookings", in.BookingType)
		}
		if in.BookingType == models.TypeScheduled && in.SlotID == nil && in.ScheduledDate == nil {
			return nil, apperr.Validation("scheduled bookings need a slot or a scheduled date")
		}
		if in.BookingType == models.TypeInstant && in.SlotID != nil {
			return nil, apperr.Validation("instant bookings cannot reference a slot")
		}
		profile, err := assignableWorker(*in.WorkerID)
		if err != nil {
			return nil, err
		}
		booking.WorkerID = in.WorkerID
		booking.Status = models.StatusPending
		price := profile.HourlyRate * models.SlotDuration.Hours()
		booking.EstimatedPrice = &price
	}

	var events []*models.Notification
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		number, err := utils.GenerateUniqueBookingNumber(tx)
		if err != nil {
			return apperr.Internal(err)
		}
		booking.BookingNumber = number

		if in.SlotID != nil {
			var slot models.Slot
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, "id = ?", *in.SlotID).Error; err != nil {
				return database.AsAppError(err, "slot")
			}
			if slot.WorkerID != *in.WorkerID {
				return apperr.Validation("slot does not belong to the requested worker")
			}
			if slot.Status != models.SlotActive {
				return apperr.Conflict("slot is no longer available")
			}
			slot.Status = models.SlotBooked
			if err := tx.Save(&slot).Error; err != nil {
				return apperr.Internal(err)
			}
			booking.SlotID = &slot.ID
			booking.ScheduledDate = &slot.Date
			startTime := slot.StartTime.Format("15:04")
			booking.ScheduledTime = &startTime
		}

		if err := tx.Create(&booking).Error; err != nil {
			return apperr.Internal(err)
		}

		if booking.WorkerID != nil {
			n, err := recordEvent(tx, *booking.WorkerID, &booking.ID, models.EventStatusChanged,
				fmt.Sprintf("New booking %s is waiting for your response.", booking.BookingNumber))
			if err != nil {
				return apperr.Internal(err)
			}
			events = append(events, n)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}

	pushEvents(events)
	return &booking, nil
}

// SelectWorker commits exactly one worker to an open booking. The row
// lock makes a second concurrent selection observe the status change
// and fail.
func SelectWorker(bookingID, customerID, workerID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	var events []*models.Notification

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", bookingID).Error; err != nil {
			return database.AsAppError(err, "booking")
		}
		if booking.CustomerID != customerID {
			return apperr.Forbidden("this is not your booking")
		}
		if booking.Status != models.StatusPendingEstimation {
			return apperr.InvalidState("booking is no longer open for selection")
		}

		var estimate models.Estimate
		err := tx.Where("booking_id = ? AND worker_id = ? AND status = ?", bookingID, workerID, models.EstimateLive).
			First(&estimate).Error
		if err != nil {
			return database.AsAppError(err, "live estimate from this worker")
		}

		booking.WorkerID = &workerID
		booking.EstimatedPrice = &estimate.Price
		booking.Status = models.StatusPending
		if err := tx.Save(&booking).Error; err != nil {
			return apperr.Internal(err)
		}

		// Every other bid leaves the pool for good.
		if err := tx.Model(&models.Estimate{}).
			Where("booking_id = ? AND worker_id <> ?", bookingID, workerID).
			Update("status", models.EstimateVoid).Error; err != nil {
			return apperr.Internal(err)
		}

		n, err := recordEvent(tx, workerID, &booking.ID, models.EventWorkerSelected,
			fmt.Sprintf("You were selected for booking %s at ৳%.2f.", booking.BookingNumber, estimate.Price))
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
	return &booking, nil
}

// Transition applies one action from the state machine table to a
// booking on behalf of an actor, under the booking's row lock.
func Transition(bookingID, actorID uuid.UUID, action BookingAction, reason *string) (*models.Booking, error) {
	if action == ActionSelect {
		return nil, apperr.Validation("worker selection has its own endpoint")
	}
	if RequiresReason(action) && (reason == nil || *reason == "") {
		return nil, apperr.Validation("a reason is required to %s a booking", action)
	}

	var booking models.Booking
	var events []*models.Notification

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", bookingID).Error; err != nil {
			return database.AsAppError(err, "booking")
		}

		if IsWorkerAction(action) {
			if booking.WorkerID == nil || *booking.WorkerID != actorID {
				return apperr.Forbidden("you are not the worker for this booking")
			}
		} else if booking.CustomerID != actorID {
			return apperr.Forbidden("this is not your booking")
		}

		next, err := NextStatus(booking.Status, action)
		if err != nil {
			return err
		}
		booking.Status = next

		switch action {
		case ActionReject:
			booking.RejectReason = reason
		case ActionCancel:
			booking.CancelReason = reason
		case ActionComplete:
			if booking.EstimatedPrice == nil {
				return apperr.InvalidState("booking has no agreed price to settle")
			}
			// The job settles at the already-agreed price; the worker
			// may not re-price at completion.
			booking.FinalPrice = booking.EstimatedPrice
		}

		if err := tx.Save(&booking).Error; err != nil {
			return apperr.Internal(err)
		}

		recipient := booking.CustomerID
		if !IsWorkerAction(action) && booking.WorkerID != nil {
			recipient = *booking.WorkerID
		}
		kind := models.EventStatusChanged
		if next == models.StatusCompleted {
			kind = models.EventBookingCompleted
		}
		n, err := recordEvent(tx, recipient, &booking.ID, kind,
			fmt.Sprintf("Booking %s is now %s.", booking.BookingNumber, next))
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

	if booking.Status == models.StatusCompleted && booking.FinalPrice != nil {
		go AwardLoyaltyPoints(booking.CustomerID, *booking.FinalPrice)
		go emailBookingCompleted(booking)
	}
	return &booking, nil
}

func emailBookingCompleted(booking models.Booking) {
	var customer models.User
	if err := database.DB.First(&customer, "id = ?", booking.CustomerID).Error; err != nil {
		log.Printf("Could not load customer for completion email: %v", err)
		return
	}
	notifications.SendEmail(customer.FullName, customer.Email, "Your Job is Complete!",
		fmt.Sprintf("<h1>Job Complete</h1><p>Booking %s has been completed by your worker. Amount due: ৳%.2f.</p>",
			booking.BookingNumber, *booking.FinalPrice))
}

// assignableWorker loads a worker profile and applies the assignment
// gate: only verified profiles of active accounts take jobs.
func assignableWorker(workerUserID uuid.UUID) (*models.WorkerProfile, error) {
	var profile models.WorkerProfile
	if err := database.DB.Preload("User").First(&profile, "user_id = ?", workerUserID).Error; err != nil {
		return nil, database.AsAppError(err, "worker")
	}
	if !profile.Verified {
		return nil, apperr.InvalidState("worker has not completed identity verification")
	}
	if !profile.User.IsActive {
		return nil, apperr.InvalidState("worker account is inactive")
	}
	return &profile, nil
}

// asAppError keeps typed errors intact across gorm's transaction wrapper.
func asAppError(err error) error {
	if appErr, ok := err.(*apperr.AppError); ok {
		return appErr
	}
	return apperr.Internal(err)
}
