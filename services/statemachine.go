package services

import (
	"github.com/asifzaman/kaajwala/apperr"
	"github.com/asifzaman/kaajwala/models"
)

type BookingAction string

const (
	ActionSelect   BookingAction = "select"
	ActionAccept   BookingAction = "accept"
	ActionReject   BookingAction = "reject"
	ActionCancel   BookingAction = "cancel"
	ActionStart    BookingAction = "start"
	ActionComplete BookingAction = "complete"
)

type transitionKey struct {
	from   models.BookingStatus
	action BookingAction
}

// transitions is the single authoritative table. Anything not listed
// here is an invalid transition, full stop.
var transitions = map[transitionKey]models.BookingStatus{
	{models.StatusPendingEstimation, ActionSelect}: models.StatusPending,
	{models.StatusPending, ActionAccept}:           models.StatusAccepted,
	{models.StatusPending, ActionReject}:           models.StatusRejected,
	{models.StatusPending, ActionCancel}:           models.StatusCancelled,
	{models.StatusAccepted, ActionCancel}:          models.StatusCancelled,
	{models.StatusAccepted, ActionStart}:           models.StatusInProgress,
	{models.StatusInProgress, ActionComplete}:      models.StatusCompleted,
}

// workerActions are performed by the assigned worker; everything else
// belongs to the customer.
var workerActions = map[BookingAction]bool{
	ActionAccept:   true,
	ActionReject:   true,
	ActionStart:    true,
	ActionComplete: true,
}

// NextStatus resolves a booking action against the transition table.
func NextStatus(current models.BookingStatus, action BookingAction) (models.BookingStatus, error) {
	next, ok := transitions[transitionKey{current, action}]
	if !ok {
		return "", apperr.InvalidTransition(current.String(), string(action))
	}
	return next, nil
}

// IsWorkerAction reports whether the action is gated on the assigned worker.
func IsWorkerAction(action BookingAction) bool {
	return workerActions[action]
}

// RequiresReason reports whether the action must carry an explanation.
func RequiresReason(action BookingAction) bool {
	return action == ActionReject || action == ActionCancel
}
