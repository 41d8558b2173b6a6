package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/asifzaman/kaajwala/apperr"
	config "github.com/asifzaman/kaajwala/configs"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/asifzaman/kaajwala/payments"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// Loyalty exchange: every full 10 points knock ৳5 off the bill,
	// capped at 20% of the base amount.
	pointsPerStep   = 10
	stepValue       = 5.0
	maxDiscountRate = 0.20
)

// Discount converts loyalty points into a currency discount against a
// base amount. Pure; the server-side settlement is the only authority,
// previews call the same function.
func Discount(base float64, points int) float64 {
	if points <= 0 || base <= 0 {
		return 0
	}
	discount := float64(points/pointsPerStep) * stepValue
	if cap := base * maxDiscountRate; discount > cap {
		discount = cap
	}
	return discount
}

// AmountDue is base minus discount, floored at zero.
func AmountDue(base float64, points int) float64 {
	due := base - Discount(base, points)
	if due < 0 {
		return 0
	}
	return due
}

// baseAmount is the final price when set, the estimate otherwise.
func baseAmount(booking *models.Booking) (float64, error) {
	if booking.FinalPrice != nil {
		return *booking.FinalPrice, nil
	}
	if booking.EstimatedPrice != nil {
		return *booking.EstimatedPrice, nil
	}
	return 0, apperr.InvalidState("booking has no price to settle")
}

// ComputeAmountDue resolves the payable amount for a booking after
// validating the customer actually holds the points they want to spend.
func ComputeAmountDue(booking *models.Booking, pointsToRedeem int) (float64, error) {
	if pointsToRedeem < 0 {
		return 0, apperr.Validation("points to redeem cannot be negative")
	}
	base, err := baseAmount(booking)
	if err != nil {
		return 0, err
	}

	var customer models.User
	if err := database.DB.First(&customer, "id = ?", booking.CustomerID).Error; err != nil {
		return 0, database.AsAppError(err, "customer")
	}
	if pointsToRedeem > customer.LoyaltyPoints {
		return 0, apperr.Validation("insufficient loyalty points: have %d, asked to redeem %d",
			customer.LoyaltyPoints, pointsToRedeem)
	}
	return AmountDue(base, pointsToRedeem), nil
}

type GatewaySessionResult struct {
	TransactionID  uuid.UUID `json:"transaction_id"`
	SessionID      string    `json:"session_id"`
	RedirectURL    string    `json:"redirect_url"`
	AmountDue      float64   `json:"amount_due"`
	PointsToRedeem int       `json:"points_to_redeem"`
}

// CreateGatewaySession opens an external payment session for a completed
// online booking. The gateway is called before anything is written: a
// timed-out call leaves the booking untouched, and a session the gateway
// opened that we failed to record is simply never settled.
func CreateGatewaySession(bookingID, customerID uuid.UUID, gatewayName string, pointsToRedeem int) (*GatewaySessionResult, error) {
	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, database.AsAppError(err, "booking")
	}
	if booking.CustomerID != customerID {
		return nil, apperr.Forbidden("this is not your booking")
	}
	if booking.Status != models.StatusCompleted {
		return nil, apperr.InvalidState("only completed bookings can be settled")
	}
	if booking.PaymentMethod != models.PaymentOnline {
		return nil, apperr.InvalidState("booking is marked for cash payment")
	}
	if booking.PaymentStatus == models.PaymentStatusPaid {
		return nil, apperr.InvalidState("booking is already paid")
	}

	due, err := ComputeAmountDue(&booking, pointsToRedeem)
	if err != nil {
		return nil, err
	}

	gateway, err := payments.ByName(gatewayName)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}

	callbackURL := fmt.Sprintf("%s/api/v1/payments/webhook/%s", config.Config("WEBHOOK_BASE_URL"), gateway.Name())
	session, err := gateway.CreateSession(due, booking.BookingNumber, callbackURL)
	if err != nil {
		return nil, upstreamError(err, "payment gateway could not open a session")
	}

	txn := models.PaymentTransaction{
		BookingID:      booking.ID,
		Gateway:        gateway.Name(),
		SessionID:      &session.SessionID,
		Amount:         due,
		PointsRedeemed: pointsToRedeem,
		Status:         models.TxnInitiated,
	}
	if err := database.DB.Create(&txn).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return &GatewaySessionResult{
		TransactionID:  txn.ID,
		SessionID:      session.SessionID,
		RedirectURL:    session.RedirectURL,
		AmountDue:      due,
		PointsToRedeem: pointsToRedeem,
	}, nil
}

// ConfirmPayment finalizes settlement exactly once per external payment
// id, for the exact session the callback belongs to. Gateway callbacks
// are retried, duplicated, and forgeable, so the verified payment must
// match the session's amount and booking reference, and a transaction
// already confirmed for this id short-circuits with the prior outcome
// and no side effects.
func ConfirmPayment(externalID string, txnID uuid.UUID) (*models.PaymentTransaction, error) {
	if externalID == "" {
		return nil, apperr.Validation("external payment id is required")
	}

	// Fast path: this callback already landed once.
	var prior models.PaymentTransaction
	err := database.DB.Where("external_id = ? AND status = ?", externalID, models.TxnConfirmed).First(&prior).Error
	if err == nil {
		return &prior, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}

	var txn models.PaymentTransaction
	if err := database.DB.Preload("Booking").First(&txn, "id = ?", txnID).Error; err != nil {
		return nil, database.AsAppError(err, "payment transaction")
	}
	if txn.Status != models.TxnInitiated {
		return nil, apperr.InvalidState("payment transaction is %s, not initiated", txn.Status)
	}

	gateway, err := payments.ByName(txn.Gateway)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	result, err := gateway.Verify(externalID)
	if err != nil {
		return nil, upstreamError(err, "payment gateway verification failed")
	}
	if !result.Paid {
		// A non-final status (payer still mid-flow) keeps the session
		// open for a later callback; only terminal failures close it.
		if result.Final {
			txn.Status = models.TxnFailed
			txn.ExternalID = &externalID
			if err := database.DB.Save(&txn).Error; err != nil {
				return nil, apperr.Internal(err)
			}
		}
		return nil, apperr.Upstream(nil, fmt.Sprintf("gateway reported payment status %q", result.Status))
	}

	// The verified payment must be the one this session opened. An
	// attacker holding a valid external id for a small payment of their
	// own must not be able to settle someone else's session with it.
	if math.Abs(result.Amount-txn.Amount) > 0.005 {
		return nil, apperr.Upstream(nil, fmt.Sprintf(
			"gateway verified ৳%.2f but the session was opened for ৳%.2f", result.Amount, txn.Amount))
	}
	if result.Reference != "" && result.Reference != txn.Booking.BookingNumber {
		return nil, apperr.Upstream(nil, "gateway payment reference does not match the booking")
	}

	var events []*models.Notification
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", txn.BookingID).Error; err != nil {
			return database.AsAppError(err, "booking")
		}

		// Re-check under the idempotency key: a duplicate callback may
		// have confirmed while we were verifying.
		var dup models.PaymentTransaction
		if err := tx.Where("external_id = ? AND status = ?", externalID, models.TxnConfirmed).First(&dup).Error; err == nil {
			txn = dup
			return nil
		}

		// Another open session may have settled the booking already; a
		// second callback must not charge it twice.
		if booking.PaymentStatus == models.PaymentStatusPaid {
			var settled models.PaymentTransaction
			if err := tx.Where("booking_id = ? AND status = ?", booking.ID, models.TxnConfirmed).First(&settled).Error; err != nil {
				return apperr.Internal(err)
			}
			txn = settled
			return nil
		}

		txn.Status = models.TxnConfirmed
		txn.ExternalID = &externalID
		if err := tx.Save(&txn).Error; err != nil {
			return apperr.Internal(err)
		}

		booking.PaymentStatus = models.PaymentStatusPaid
		if err := tx.Save(&booking).Error; err != nil {
			return apperr.Internal(err)
		}

		if txn.PointsRedeemed > 0 {
			// The balance was checked at session creation; another
			// settlement may have spent the points since.
			res := tx.Model(&models.User{}).
				Where("id = ? AND loyalty_points >= ?", booking.CustomerID, txn.PointsRedeemed).
				Update("loyalty_points", gorm.Expr("loyalty_points - ?", txn.PointsRedeemed))
			if res.Error != nil {
				return apperr.Internal(res.Error)
			}
			if res.RowsAffected == 0 {
				return apperr.Conflict("redeemed loyalty points are no longer available")
			}
		}

		n, err := recordEvent(tx, booking.CustomerID, &booking.ID, models.EventPaymentConfirmed,
			fmt.Sprintf("Payment of ৳%.2f for booking %s is confirmed.", txn.Amount, booking.BookingNumber))
		if err != nil {
			return apperr.Internal(err)
		}
		events = append(events, n)

		if booking.WorkerID != nil {
			n, err := recordEvent(tx, *booking.WorkerID, &booking.ID, models.EventPaymentConfirmed,
				fmt.Sprintf("Booking %s has been paid online.", booking.BookingNumber))
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

	if len(events) > 0 {
		pushEvents(events)
		go GenerateReceipt(txn.ID)
	}
	return &txn, nil
}

// MarkCashPaid settles a completed cash booking. Calling it again once
// paid is a successful no-op.
func MarkCashPaid(bookingID, workerID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	var events []*models.Notification

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", bookingID).Error; err != nil {
			return database.AsAppError(err, "booking")
		}
		if booking.WorkerID == nil || *booking.WorkerID != workerID {
			return apperr.Forbidden("you are not the worker for this booking")
		}
		if booking.Status != models.StatusCompleted {
			return apperr.InvalidState("only completed bookings can be marked paid")
		}
		if booking.PaymentMethod != models.PaymentCash {
			return apperr.InvalidState("booking is marked for online payment")
		}
		if booking.PaymentStatus == models.PaymentStatusPaid {
			return nil
		}

		booking.PaymentStatus = models.PaymentStatusPaid
		if err := tx.Save(&booking).Error; err != nil {
			return apperr.Internal(err)
		}

		txn := models.PaymentTransaction{
			BookingID: booking.ID,
			Gateway:   "cash",
			Amount:    *booking.FinalPrice,
			Status:    models.TxnConfirmed,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return apperr.Internal(err)
		}

		n, err := recordEvent(tx, booking.CustomerID, &booking.ID, models.EventPaymentConfirmed,
			fmt.Sprintf("Cash payment for booking %s was recorded.", booking.BookingNumber))
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

// upstreamError maps gateway failures onto the typed taxonomy, keeping
// any retry-after hint the provider sent.
func upstreamError(err error, message string) *apperr.AppError {
	var rl *payments.RateLimitError
	if errors.As(err, &rl) {
		return apperr.UpstreamRetryable(err, message, rl.RetryAfter)
	}
	return apperr.Upstream(err, message)
}
