package handlers

import (
	"log"

	"github.com/asifzaman/kaajwala/apperr"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/asifzaman/kaajwala/payments"
	"github.com/asifzaman/kaajwala/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	BookingID      string `json:"booking_id" validate:"required,uuid"`
	Gateway        string `json:"gateway" validate:"required,oneof=bkash sslcommerz"`
	PointsToRedeem int    `json:"points_to_redeem" validate:"gte=0"`
}

func CreatePaymentSession(c *fiber.Ctx) error {
	customerID := currentUserID(c)

	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, apperr.Validation("%v", err))
	}
	bookingID, _ := uuid.Parse(req.BookingID)

	result, err := services.CreateGatewaySession(bookingID, customerID, req.Gateway, req.PointsToRedeem)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

type PreviewSettlementRequest struct {
	BookingID      string `json:"booking_id" validate:"required,uuid"`
	PointsToRedeem int    `json:"points_to_redeem" validate:"gte=0"`
}

// PreviewSettlement runs the same computation the charge will use; the
// response is advisory, confirmation recomputes nothing client-side.
func PreviewSettlement(c *fiber.Ctx) error {
	customerID := currentUserID(c)

	var req PreviewSettlementRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, apperr.Validation("%v", err))
	}
	bookingID, _ := uuid.Parse(req.BookingID)

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return respondError(c, database.AsAppError(err, "booking"))
	}
	if booking.CustomerID != customerID {
		return respondError(c, apperr.Forbidden("this is not your booking"))
	}

	due, err := services.ComputeAmountDue(&booking, req.PointsToRedeem)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"amount_due": due, "points_to_redeem": req.PointsToRedeem})
}

type bkashWebhookPayload struct {
	PaymentID string `json:"paymentID"`
	Status    string `json:"status"`
}

// HandleGatewayWebhook is where online settlement finalizes. Providers
// retry callbacks, so everything downstream is idempotent on the
// external payment id.
func HandleGatewayWebhook(c *fiber.Ctx) error {
	switch c.Params("gateway") {
	case payments.GatewayBkash:
		return handleBkashWebhook(c)
	case payments.GatewaySSLCommerz:
		return handleSSLCommerzWebhook(c)
	default:
		return respondError(c, apperr.NotFound("payment gateway"))
	}
}

func handleBkashWebhook(c *fiber.Ctx) error {
	var payload bkashWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		payload.PaymentID = c.Query("paymentID")
	}
	if payload.PaymentID == "" {
		return respondError(c, apperr.Validation("paymentID is required"))
	}

	var txn models.PaymentTransaction
	if err := database.DB.Where("session_id = ?", payload.PaymentID).First(&txn).Error; err != nil {
		return respondError(c, database.AsAppError(err, "payment transaction"))
	}

	log.Printf("Received bKash webhook for paymentID %s (booking %s)", payload.PaymentID, txn.BookingID)

	confirmed, err := services.ConfirmPayment(payload.PaymentID, txn.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Webhook processed successfully", "transaction_id": confirmed.ID})
}

func handleSSLCommerzWebhook(c *fiber.Ctx) error {
	valID := c.FormValue("val_id")
	tranID := c.FormValue("tran_id")
	if valID == "" || tranID == "" {
		return respondError(c, apperr.Validation("val_id and tran_id are required"))
	}

	// Retried IPNs for an already-settled payment have no initiated row
	// left to resolve; answer them from the confirmed one.
	var prior models.PaymentTransaction
	if err := database.DB.Where("external_id = ? AND status = ?", valID, models.TxnConfirmed).First(&prior).Error; err == nil {
		return c.JSON(fiber.Map{"message": "Webhook processed successfully", "transaction_id": prior.ID})
	}

	var booking models.Booking
	if err := database.DB.Where("booking_number = ?", tranID).First(&booking).Error; err != nil {
		return respondError(c, database.AsAppError(err, "booking"))
	}

	var txn models.PaymentTransaction
	if err := database.DB.
		Where("booking_id = ? AND gateway = ? AND status = ?", booking.ID, payments.GatewaySSLCommerz, models.TxnInitiated).
		Order("created_at desc").
		First(&txn).Error; err != nil {
		return respondError(c, database.AsAppError(err, "initiated payment transaction"))
	}

	log.Printf("Received SSLCommerz IPN for booking %s (val_id %s)", tranID, valID)

	confirmed, err := services.ConfirmPayment(valID, txn.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Webhook processed successfully", "transaction_id": confirmed.ID})
}
