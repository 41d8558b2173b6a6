package services

import (
	"errors"
	"testing"

	"github.com/asifzaman/kaajwala/apperr"
	"github.com/asifzaman/kaajwala/models"
)

func TestNextStatusAllowedTransitions(t *testing.T) {
	cases := []struct {
		from   models.BookingStatus
		action BookingAction
		want   models.BookingStatus
	}{
		{models.StatusPendingEstimation, ActionSelect, models.StatusPending},
		{models.StatusPending, ActionAccept, models.StatusAccepted},
		{models.StatusPending, ActionReject, models.StatusRejected},
		{models.StatusPending, ActionCancel, models.StatusCancelled},
		{models.StatusAccepted, ActionCancel, models.StatusCancelled},
		{models.StatusAccepted, ActionStart, models.StatusInProgress},
		{models.StatusInProgress, ActionComplete, models.StatusCompleted},
	}

	for _, tc := range cases {
		got, err := NextStatus(tc.from, tc.action)
		if err != nil {
			t.Errorf("NextStatus(%s, %s) returned error: %v", tc.from, tc.action, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NextStatus(%s, %s) = %s, want %s", tc.from, tc.action, got, tc.want)
		}
	}
}

func TestNextStatusRejectsInvalidMoves(t *testing.T) {
	cases := []struct {
		from   models.BookingStatus
		action BookingAction
	}{
		{models.StatusAccepted, ActionComplete}, // complete before start
		{models.StatusPending, ActionStart},
		{models.StatusPending, ActionSelect},
		{models.StatusInProgress, ActionCancel},
		{models.StatusCompleted, ActionComplete},
		{models.StatusCompleted, ActionCancel},
		{models.StatusCancelled, ActionAccept},
		{models.StatusRejected, ActionStart},
		{models.StatusPendingEstimation, ActionAccept},
	}

	for _, tc := range cases {
		_, err := NextStatus(tc.from, tc.action)
		if err == nil {
			t.Errorf("NextStatus(%s, %s) succeeded, want invalid transition", tc.from, tc.action)
			continue
		}
		var appErr *apperr.AppError
		if !errors.As(err, &appErr) || appErr.Code != apperr.CodeInvalidTransition {
			t.Errorf("NextStatus(%s, %s) error = %v, want %s", tc.from, tc.action, err, apperr.CodeInvalidTransition)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	terminal := []models.BookingStatus{models.StatusCompleted, models.StatusCancelled, models.StatusRejected}
	actions := []BookingAction{ActionSelect, ActionAccept, ActionReject, ActionCancel, ActionStart, ActionComplete}

	for _, from := range terminal {
		for _, action := range actions {
			if _, err := NextStatus(from, action); err == nil {
				t.Errorf("terminal state %s allows action %s", from, action)
			}
		}
	}
}

func TestActionMetadata(t *testing.T) {
	for _, action := range []BookingAction{ActionAccept, ActionReject, ActionStart, ActionComplete} {
		if !IsWorkerAction(action) {
			t.Errorf("%s should be a worker action", action)
		}
	}
	for _, action := range []BookingAction{ActionSelect, ActionCancel} {
		if IsWorkerAction(action) {
			t.Errorf("%s should be a customer action", action)
		}
	}
	if !RequiresReason(ActionReject) || !RequiresReason(ActionCancel) {
		t.Error("reject and cancel must require a reason")
	}
	if RequiresReason(ActionComplete) {
		t.Error("complete must not require a reason")
	}
}
