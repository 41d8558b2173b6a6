package handlers

import (
	"time"

	"github.com/asifzaman/kaajwala/apperr"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/asifzaman/kaajwala/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	BookingType   string   `json:"booking_type" validate:"required,oneof=instant scheduled call_worker"`
	WorkerID      *string  `json:"worker_id,omitempty" validate:"omitempty,uuid"`
	Description   string   `json:"description" validate:"required,min=10"`
	LocationText  string   `json:"location_text" validate:"required"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	PaymentMethod string   `json:"payment_method" validate:"required,oneof=cash online"`
	SlotID        *string  `json:"slot_id,omitempty" validate:"omitempty,uuid"`
	ScheduledDate *string  `json:"scheduled_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTime *string  `json:"scheduled_time,omitempty" validate:"omitempty,datetime=15:04"`
}

func CreateBooking(c *fiber.Ctx) error {
	customerID := currentUserID(c)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, apperr.Validation("%v", err))
	}

	in := services.CreateBookingInput{
		BookingType:   models.BookingType(req.BookingType),
		Description:   req.Description,
		LocationText:  req.LocationText,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		ScheduledTime: req.ScheduledTime,
	}
	if req.WorkerID != nil {
		id, err := uuid.Parse(*req.WorkerID)
		if err != nil {
			return respondError(c, apperr.Validation("invalid worker_id"))
		}
		in.WorkerID = &id
	}
	if req.SlotID != nil {
		id, err := uuid.Parse(*req.SlotID)
		if err != nil {
			return respondError(c, apperr.Validation("invalid slot_id"))
		}
		in.SlotID = &id
	}
	if req.ScheduledDate != nil {
		date, err := time.Parse("2006-01-02", *req.ScheduledDate)
		if err != nil {
			return respondError(c, apperr.Validation("invalid scheduled_date"))
		}
		in.ScheduledDate = &date
	}

	booking, err := services.CreateBooking(customerID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func GetBooking(c *fiber.Ctx) error {
	userID := currentUserID(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid booking id"))
	}

	var booking models.Booking
	if err := database.DB.Preload("Customer").Preload("Worker").Preload("Slot").
		First(&booking, "id = ?", bookingID).Error; err != nil {
		return respondError(c, database.AsAppError(err, "booking"))
	}
	if booking.CustomerID != userID && (booking.WorkerID == nil || *booking.WorkerID != userID) {
		return respondError(c, apperr.Forbidden("this is not your booking"))
	}
	return c.JSON(booking)
}

func GetMyBookings(c *fiber.Ctx) error {
	customerID := currentUserID(c)

	var bookings []models.Booking
	database.DB.
		Preload("Worker").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&bookings)

	return c.JSON(bookings)
}

func GetMyWorkerBookings(c *fiber.Ctx) error {
	workerID := currentUserID(c)

	var bookings []models.Booking
	database.DB.
		Preload("Customer").
		Where("worker_id = ?", workerID).
		Order("created_at desc").
		Find(&bookings)

	return c.JSON(bookings)
}

type SelectWorkerRequest struct {
	WorkerID string `json:"worker_id" validate:"required,uuid"`
}

func SelectWorker(c *fiber.Ctx) error {
	customerID := currentUserID(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid booking id"))
	}

	var req SelectWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, apperr.Validation("%v", err))
	}
	workerID, _ := uuid.Parse(req.WorkerID)

	booking, err := services.SelectWorker(bookingID, customerID, workerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// transitionHandler builds the fiber handler for one state machine
// action, parsing a reason body only where the table demands one.
func transitionHandler(action services.BookingAction) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID := currentUserID(c)
		bookingID, err := uuid.Parse(c.Params("bookingId"))
		if err != nil {
			return respondError(c, apperr.Validation("invalid booking id"))
		}

		var reason *string
		if services.RequiresReason(action) {
			var req ReasonRequest
			if err := c.BodyParser(&req); err != nil {
				return respondError(c, apperr.Validation("cannot parse JSON"))
			}
			if err := validate.Struct(req); err != nil {
				return respondError(c, apperr.Validation("%v", err))
			}
			reason = &req.Reason
		}

		booking, err := services.Transition(bookingID, actorID, action, reason)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(booking)
	}
}

var (
	AcceptBooking   = transitionHandler(services.ActionAccept)
	RejectBooking   = transitionHandler(services.ActionReject)
	CancelBooking   = transitionHandler(services.ActionCancel)
	StartBooking    = transitionHandler(services.ActionStart)
	CompleteBooking = transitionHandler(services.ActionComplete)
)

func MarkCashPaid(c *fiber.Ctx) error {
	workerID := currentUserID(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid booking id"))
	}

	booking, err := services.MarkCashPaid(bookingID, workerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cash payment recorded.", "booking": booking})
}
