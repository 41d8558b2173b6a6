package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/asifzaman/kaajwala/models"
	"gorm.io/gorm"
)

const bookingNumberSuffixLength = 6
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// FormatBookingNumber builds the human-legible reference shown to both
// parties, e.g. KW-20260829-7QX2MB.
func FormatBookingNumber(t time.Time, suffix string) string {
	return fmt.Sprintf("KW-%s-%s", t.Format("20060102"), suffix)
}

func RandomSuffix(r *rand.Rand) string {
	b := make([]byte, bookingNumberSuffixLength)
	for i := range b {
		b[i] = letterBytes[r.Intn(len(letterBytes))]
	}
	return string(b)
}

func GenerateUniqueBookingNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		number := FormatBookingNumber(time.Now(), RandomSuffix(seededRand))

		var booking models.Booking
		err := tx.Where("booking_number = ?", number).First(&booking).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return number, nil
			}
			return "", err
		}
	}
}
