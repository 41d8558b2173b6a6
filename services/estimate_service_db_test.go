package services

import (
	"errors"
	"testing"

	"github.com/asifzaman/kaajwala/apperr"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
)

func TestSubmitEstimateRevisionKeepsOneLiveRow(t *testing.T) {
	openTestDB(t)
	customer := seedCustomer(t, 0)
	worker := seedWorker(t)
	booking := seedCallWorkerBooking(t, customer.ID)

	first, err := SubmitEstimate(booking.ID, worker.ID, 500, nil)
	if err != nil {
		t.Fatalf("first SubmitEstimate returned error: %v", err)
	}

	note := "includes replacement washer"
	second, err := SubmitEstimate(booking.ID, worker.ID, 450, &note)
	if err != nil {
		t.Fatalf("second SubmitEstimate returned error: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("revision reported id %s, want the original row's id %s", second.ID, first.ID)
	}

	var rows []models.Estimate
	database.DB.Where("booking_id = ? AND worker_id = ?", booking.ID, worker.ID).Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("got %d estimate rows for the pair, want exactly 1", len(rows))
	}
	if rows[0].Price != 450 {
		t.Errorf("price = %v, want the revised 450", rows[0].Price)
	}
	if rows[0].Status != models.EstimateLive {
		t.Errorf("status = %s, want live", rows[0].Status)
	}
}

func TestSubmitEstimateRejectedAfterSelection(t *testing.T) {
	openTestDB(t)
	customer := seedCustomer(t, 0)
	winner := seedWorker(t)
	late := seedWorker(t)
	booking := seedCallWorkerBooking(t, customer.ID)

	if _, err := SubmitEstimate(booking.ID, winner.ID, 600, nil); err != nil {
		t.Fatalf("SubmitEstimate returned error: %v", err)
	}
	if _, err := SelectWorker(booking.ID, customer.ID, winner.ID); err != nil {
		t.Fatalf("SelectWorker returned error: %v", err)
	}

	_, err := SubmitEstimate(booking.ID, late.ID, 550, nil)
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperr.CodeInvalidState {
		t.Fatalf("late estimate error = %v, want %s", err, apperr.CodeInvalidState)
	}
}

func TestSelectWorkerCommitsOnlyOnce(t *testing.T) {
	openTestDB(t)
	customer := seedCustomer(t, 0)
	first := seedWorker(t)
	second := seedWorker(t)
	booking := seedCallWorkerBooking(t, customer.ID)

	if _, err := SubmitEstimate(booking.ID, first.ID, 600, nil); err != nil {
		t.Fatalf("SubmitEstimate(first) returned error: %v", err)
	}
	if _, err := SubmitEstimate(booking.ID, second.ID, 550, nil); err != nil {
		t.Fatalf("SubmitEstimate(second) returned error: %v", err)
	}

	committed, err := SelectWorker(booking.ID, customer.ID, first.ID)
	if err != nil {
		t.Fatalf("first SelectWorker returned error: %v", err)
	}
	if committed.WorkerID == nil || *committed.WorkerID != first.ID {
		t.Fatal("booking is not committed to the selected worker")
	}
	if committed.Status != models.StatusPending {
		t.Errorf("status = %s, want pending", committed.Status)
	}
	if committed.EstimatedPrice == nil || *committed.EstimatedPrice != 600 {
		t.Errorf("estimated price = %v, want the selected worker's 600", committed.EstimatedPrice)
	}

	_, err = SelectWorker(booking.ID, customer.ID, second.ID)
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperr.CodeInvalidState {
		t.Fatalf("second SelectWorker error = %v, want %s", err, apperr.CodeInvalidState)
	}

	var losing models.Estimate
	if err := database.DB.Where("booking_id = ? AND worker_id = ?", booking.ID, second.ID).First(&losing).Error; err != nil {
		t.Fatalf("failed to load losing estimate: %v", err)
	}
	if losing.Status != models.EstimateVoid {
		t.Errorf("losing estimate status = %s, want void", losing.Status)
	}
}
