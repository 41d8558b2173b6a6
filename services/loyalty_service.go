package services

import (
	"log"

	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// One point per full ৳100 of a completed job's final price.
const accrualDivisor = 100

// PointsEarned computes the accrual for a completed booking.
func PointsEarned(finalPrice float64) int {
	if finalPrice <= 0 {
		return 0
	}
	return int(finalPrice) / accrualDivisor
}

func AwardLoyaltyPoints(customerID uuid.UUID, finalPrice float64) {
	earned := PointsEarned(finalPrice)
	if earned == 0 {
		return
	}

	err := database.DB.Model(&models.User{}).Where("id = ?", customerID).
		Update("loyalty_points", gorm.Expr("loyalty_points + ?", earned)).Error
	if err != nil {
		log.Printf("🔥 Failed to award %d loyalty points to customer %s: %v", earned, customerID, err)
	} else {
		log.Printf("✅ Awarded %d loyalty points to customer %s.", earned, customerID)
	}
}

func GetLoyaltyBalance(customerID uuid.UUID) (int, error) {
	var customer models.User
	if err := database.DB.First(&customer, "id = ?", customerID).Error; err != nil {
		return 0, database.AsAppError(err, "customer")
	}
	return customer.LoyaltyPoints, nil
}
