package handlers

import (
	"errors"
	"time"

	"github.com/asifzaman/kaajwala/apperr"
	config "github.com/asifzaman/kaajwala/configs"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=10"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=customer worker"`

	// Worker-only fields.
	ServiceCategory string  `json:"service_category,omitempty"`
	HourlyRate      float64 `json:"hourly_rate,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, apperr.Validation("%v", err))
	}

	role := req.Role
	if role == "" {
		role = "customer"
	}
	if role == "worker" {
		if req.ServiceCategory == "" {
			return respondError(c, apperr.Validation("service_category is required for workers"))
		}
		if req.HourlyRate <= 0 {
			return respondError(c, apperr.Validation("hourly_rate must be positive for workers"))
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, apperr.Internal(err))
	}

	var newUser models.User
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		newUser = models.User{
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
			Password: string(hashedPassword),
			Role:     role,
		}
		if err := tx.Create(&newUser).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("email already exists")
			}
			return apperr.Internal(err)
		}

		if role == "worker" {
			profile := models.WorkerProfile{
				UserID:          newUser.ID,
				ServiceCategory: req.ServiceCategory,
				HourlyRate:      req.HourlyRate,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return apperr.Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        newUser.ID,
		"full_name": newUser.FullName,
		"email":     newUser.Email,
		"role":      newUser.Role,
	})
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, apperr.Validation("%v", err))
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid email or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid email or password"})
	}
	if !user.IsActive {
		return respondError(c, apperr.Forbidden("account is deactivated"))
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return respondError(c, apperr.Internal(err))
	}

	return c.JSON(fiber.Map{
		"token": signed,
		"user": fiber.Map{
			"id":        user.ID,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}
