package handlers

import (
	"github.com/asifzaman/kaajwala/apperr"
	"github.com/asifzaman/kaajwala/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SubmitEstimateRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
	Note  *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

func SubmitEstimate(c *fiber.Ctx) error {
	workerID := currentUserID(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid booking id"))
	}

	var req SubmitEstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, apperr.Validation("%v", err))
	}

	estimate, err := services.SubmitEstimate(bookingID, workerID, req.Price, req.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(estimate)
}

func ListEstimates(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid booking id"))
	}

	estimates, err := services.ListEstimates(bookingID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(estimates)
}
