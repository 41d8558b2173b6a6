package services

import (
	"errors"
	"testing"

	"github.com/asifzaman/kaajwala/apperr"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
)

func TestCreateBookingBookedSlotCannotBeReused(t *testing.T) {
	openTestDB(t)
	worker := seedWorker(t)
	firstCustomer := seedCustomer(t, 0)
	secondCustomer := seedCustomer(t, 0)
	slot := seedActiveSlot(t, worker.ID)

	in := CreateBookingInput{
		BookingType:   models.TypeScheduled,
		WorkerID:      &worker.ID,
		Description:   "Deep clean the whole apartment before Eid",
		LocationText:  "House 7, Banani DOHS",
		PaymentMethod: models.PaymentCash,
		SlotID:        &slot.ID,
	}

	booked, err := CreateBooking(firstCustomer.ID, in)
	if err != nil {
		t.Fatalf("first CreateBooking returned error: %v", err)
	}
	if booked.SlotID == nil || *booked.SlotID != slot.ID {
		t.Fatal("booking did not take the slot")
	}

	var taken models.Slot
	if err := database.DB.First(&taken, "id = ?", slot.ID).Error; err != nil {
		t.Fatalf("failed to reload slot: %v", err)
	}
	if taken.Status != models.SlotBooked {
		t.Errorf("slot status = %s, want booked", taken.Status)
	}

	_, err = CreateBooking(secondCustomer.ID, in)
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperr.CodeConflict {
		t.Fatalf("second CreateBooking error = %v, want %s", err, apperr.CodeConflict)
	}
}
