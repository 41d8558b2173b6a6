package services

import (
	"os"
	"testing"
	"time"

	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/asifzaman/kaajwala/utils"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openTestDB connects to the database named by TEST_DATABASE_URL,
// migrates the schema and wipes every table the services touch. Tests
// that need it are skipped when the variable is unset.
func openTestDB(t *testing.T) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	database.DB = db

	err = db.AutoMigrate(
		&models.User{},
		&models.WorkerProfile{},
		&models.Slot{},
		&models.Booking{},
		&models.Estimate{},
		&models.PaymentTransaction{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	for _, table := range []string{
		"notifications", "payment_transactions", "estimates",
		"bookings", "slots", "worker_profiles", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to clean table %s: %v", table, err)
		}
	}
}

func seedCustomer(t *testing.T, points int) *models.User {
	t.Helper()

	user := models.User{
		FullName:      "Rahima Begum",
		Email:         uuid.New().String() + "@example.com",
		Phone:         "01711000000",
		Password:      "not-a-real-hash",
		Role:          "customer",
		LoyaltyPoints: points,
		IsActive:      true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	return &user
}

func seedWorker(t *testing.T) *models.User {
	t.Helper()

	user := models.User{
		FullName: "Abdul Karim",
		Email:    uuid.New().String() + "@example.com",
		Phone:    "01722000000",
		Password: "not-a-real-hash",
		Role:     "worker",
		IsActive: true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed worker user: %v", err)
	}

	profile := models.WorkerProfile{
		UserID:          user.ID,
		ServiceCategory: "plumbing",
		HourlyRate:      400,
		Verified:        true,
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed worker profile: %v", err)
	}
	return &user
}

func seedCallWorkerBooking(t *testing.T, customerID uuid.UUID) *models.Booking {
	t.Helper()

	number, err := utils.GenerateUniqueBookingNumber(database.DB)
	if err != nil {
		t.Fatalf("failed to generate booking number: %v", err)
	}

	booking := models.Booking{
		BookingNumber: number,
		CustomerID:    customerID,
		BookingType:   models.TypeCallWorker,
		Status:        models.StatusPendingEstimation,
		PaymentMethod: models.PaymentCash,
		PaymentStatus: models.PaymentStatusPending,
		Description:   "Kitchen sink is leaking under the counter",
		LocationText:  "House 12, Road 5, Dhanmondi",
	}
	if err := database.DB.Create(&booking).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return &booking
}

func seedCompletedOnlineBooking(t *testing.T, customerID, workerID uuid.UUID, finalPrice float64) *models.Booking {
	t.Helper()

	number, err := utils.GenerateUniqueBookingNumber(database.DB)
	if err != nil {
		t.Fatalf("failed to generate booking number: %v", err)
	}

	booking := models.Booking{
		BookingNumber:  number,
		CustomerID:     customerID,
		WorkerID:       &workerID,
		BookingType:    models.TypeInstant,
		Status:         models.StatusCompleted,
		PaymentMethod:  models.PaymentOnline,
		PaymentStatus:  models.PaymentStatusPending,
		Description:    "Ceiling fan installation in the bedroom",
		LocationText:   "Flat 3B, Mirpur 10",
		EstimatedPrice: &finalPrice,
		FinalPrice:     &finalPrice,
	}
	if err := database.DB.Create(&booking).Error; err != nil {
		t.Fatalf("failed to seed completed booking: %v", err)
	}
	return &booking
}

func seedActiveSlot(t *testing.T, workerID uuid.UUID) *models.Slot {
	t.Helper()

	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	slot := models.Slot{
		WorkerID:  workerID,
		Date:      start.Truncate(24 * time.Hour),
		StartTime: start,
		Status:    models.SlotActive,
	}
	if err := database.DB.Create(&slot).Error; err != nil {
		t.Fatalf("failed to seed slot: %v", err)
	}
	return &slot
}

func seedInitiatedTxn(t *testing.T, bookingID uuid.UUID, gateway, sessionID string, amount float64, points int) *models.PaymentTransaction {
	t.Helper()

	txn := models.PaymentTransaction{
		BookingID:      bookingID,
		Gateway:        gateway,
		SessionID:      &sessionID,
		Amount:         amount,
		PointsRedeemed: points,
		Status:         models.TxnInitiated,
	}
	if err := database.DB.Create(&txn).Error; err != nil {
		t.Fatalf("failed to seed payment transaction: %v", err)
	}
	return &txn
}
