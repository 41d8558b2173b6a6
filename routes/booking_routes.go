package routes

import (
	"github.com/asifzaman/kaajwala/handlers"
	"github.com/asifzaman/kaajwala/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", handlers.GetMyBookings)
	booking.Post("", handlers.CreateBooking)
	booking.Get("/:bookingId", handlers.GetBooking)
	booking.Get("/:bookingId/estimates", handlers.ListEstimates)
	booking.Post("/:bookingId/select-worker", handlers.SelectWorker)
	booking.Post("/:bookingId/cancel", handlers.CancelBooking)

	workerBooking := api.Group("/worker/bookings", middleware.Protected(), middleware.WorkerRequired())
	workerBooking.Get("/me", handlers.GetMyWorkerBookings)
	workerBooking.Post("/:bookingId/estimate", handlers.SubmitEstimate)
	workerBooking.Post("/:bookingId/accept", handlers.AcceptBooking)
	workerBooking.Post("/:bookingId/reject", handlers.RejectBooking)
	workerBooking.Post("/:bookingId/start", handlers.StartBooking)
	workerBooking.Post("/:bookingId/complete", handlers.CompleteBooking)
	workerBooking.Post("/:bookingId/mark-cash-paid", handlers.MarkCashPaid)
}
