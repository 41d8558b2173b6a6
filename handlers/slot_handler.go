package handlers

import (
	"time"

	"github.com/asifzaman/kaajwala/apperr"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateSlotRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// CreateSlot publishes one fixed-length availability block.
func CreateSlot(c *fiber.Ctx) error {
	workerID := currentUserID(c)

	var req CreateSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, apperr.Validation("%v", err))
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	startTime, _ := time.Parse(time.RFC3339, req.StartTime)
	if startTime.Before(time.Now()) {
		return respondError(c, apperr.Validation("slot start time cannot be in the past"))
	}

	var overlapping int64
	database.DB.Model(&models.Slot{}).
		Where("worker_id = ? AND start_time < ? AND start_time > ?",
			workerID, startTime.Add(models.SlotDuration), startTime.Add(-models.SlotDuration)).
		Count(&overlapping)
	if overlapping > 0 {
		return respondError(c, apperr.Conflict("slot overlaps an existing one"))
	}

	slot := models.Slot{
		WorkerID:  workerID,
		Date:      date,
		StartTime: startTime,
		Status:    models.SlotActive,
	}
	if err := database.DB.Create(&slot).Error; err != nil {
		return respondError(c, apperr.Internal(err))
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

func GetMySlots(c *fiber.Ctx) error {
	workerID := currentUserID(c)

	var slots []models.Slot
	database.DB.Where("worker_id = ?", workerID).Order("start_time asc").Find(&slots)
	return c.JSON(slots)
}

// GetWorkerSlots lists a worker's bookable availability for customers.
func GetWorkerSlots(c *fiber.Ctx) error {
	workerID, err := uuid.Parse(c.Params("workerId"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid worker id"))
	}

	var slots []models.Slot
	database.DB.
		Where("worker_id = ? AND status = ? AND start_time > ?", workerID, models.SlotActive, time.Now()).
		Order("start_time asc").
		Find(&slots)
	return c.JSON(slots)
}

type UpdateSlotStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active busy"`
}

// UpdateSlotStatus lets a worker toggle an unbooked slot between active
// and busy. Booked is terminal and owned by the booking flow.
func UpdateSlotStatus(c *fiber.Ctx) error {
	workerID := currentUserID(c)
	slotID, err := uuid.Parse(c.Params("slotId"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid slot id"))
	}

	var req UpdateSlotStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, apperr.Validation("%v", err))
	}

	var slot models.Slot
	if err := database.DB.First(&slot, "id = ?", slotID).Error; err != nil {
		return respondError(c, database.AsAppError(err, "slot"))
	}
	if slot.WorkerID != workerID {
		return respondError(c, apperr.Forbidden("this is not your slot"))
	}
	if slot.Status == models.SlotBooked {
		return respondError(c, apperr.InvalidState("a booked slot cannot change status"))
	}

	slot.Status = models.SlotStatus(req.Status)
	if err := database.DB.Save(&slot).Error; err != nil {
		return respondError(c, apperr.Internal(err))
	}
	return c.JSON(slot)
}
