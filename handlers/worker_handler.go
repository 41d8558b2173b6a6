package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/asifzaman/kaajwala/apperr"
	config "github.com/asifzaman/kaajwala/configs"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListWorkers is the public worker directory: verified, active workers
// with their hourly rate, optionally filtered by category.
func ListWorkers(c *fiber.Ctx) error {
	query := database.DB.Preload("User").
		Joins("JOIN users ON users.id = worker_profiles.user_id").
		Where("worker_profiles.verified = ? AND users.is_active = ?", true, true)

	if category := c.Query("category"); category != "" {
		query = query.Where("worker_profiles.service_category = ?", category)
	}

	var workers []models.WorkerProfile
	query.Order("worker_profiles.avg_rating desc").Find(&workers)
	return c.JSON(workers)
}

func GetMyWorkerProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var profile models.WorkerProfile
	if err := database.DB.Preload("User").First(&profile, "user_id = ?", userID).Error; err != nil {
		return respondError(c, database.AsAppError(err, "worker profile"))
	}
	return c.JSON(profile)
}

// GenerateNIDUploadSignature creates a signed upload so the client can
// push the NID image straight to Cloudinary; the external recognition
// service reads it from there. The core only ever checks the resulting
// verified flag.
func GenerateNIDUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return respondError(c, apperr.Internal(err))
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return respondError(c, apperr.Internal(err))
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: "kaajwala_nid",
	})
	if err != nil {
		return respondError(c, apperr.Internal(err))
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return respondError(c, apperr.Internal(err))
	}

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"api_key":   cld.Config.Cloud.APIKey,
		"folder":    "kaajwala_nid",
	})
}

type AttachNIDRequest struct {
	NIDImageURL string `json:"nid_image_url" validate:"required,url"`
}

func AttachNIDImage(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req AttachNIDRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, apperr.Validation("%v", err))
	}

	var profile models.WorkerProfile
	if err := database.DB.First(&profile, "user_id = ?", userID).Error; err != nil {
		return respondError(c, database.AsAppError(err, "worker profile"))
	}

	profile.NIDImageURL = &req.NIDImageURL
	if err := database.DB.Save(&profile).Error; err != nil {
		return respondError(c, apperr.Internal(err))
	}
	return c.JSON(fiber.Map{"message": "NID image attached. Verification is pending review."})
}

type VerifyWorkerRequest struct {
	Verified bool `json:"verified"`
}

// SetWorkerVerification is the admin end of the recognition boundary.
func SetWorkerVerification(c *fiber.Ctx) error {
	workerID, err := uuid.Parse(c.Params("workerId"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid worker id"))
	}

	var req VerifyWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("cannot parse JSON"))
	}

	var profile models.WorkerProfile
	if err := database.DB.First(&profile, "user_id = ?", workerID).Error; err != nil {
		return respondError(c, database.AsAppError(err, "worker profile"))
	}

	profile.Verified = req.Verified
	if err := database.DB.Save(&profile).Error; err != nil {
		return respondError(c, apperr.Internal(err))
	}
	return c.JSON(profile)
}
