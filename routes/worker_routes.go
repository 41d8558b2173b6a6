package routes

import (
	"github.com/asifzaman/kaajwala/handlers"
	"github.com/asifzaman/kaajwala/middleware"
	"github.com/gofiber/fiber/v2"
)

func WorkerRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/workers", handlers.ListWorkers)
	api.Get("/workers/:workerId/slots", handlers.GetWorkerSlots)

	worker := api.Group("/worker", middleware.Protected(), middleware.WorkerRequired())
	worker.Get("/me", handlers.GetMyWorkerProfile)
	worker.Post("/nid-upload-signature", handlers.GenerateNIDUploadSignature)
	worker.Post("/nid-image", handlers.AttachNIDImage)
	worker.Post("/slots", handlers.CreateSlot)
	worker.Get("/slots/me", handlers.GetMySlots)
	worker.Patch("/slots/:slotId/status", handlers.UpdateSlotStatus)

	admin := api.Group("/admin/workers", middleware.Protected(), middleware.AdminRequired())
	admin.Patch("/:workerId/verify", handlers.SetWorkerVerification)
}
