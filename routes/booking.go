package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/securespot/locker-api/controllers"
	"github.com/securespot/locker-api/middleware"
)

// SetupBookingRoutes configures all booking related routes
func SetupBookingRoutes(app *fiber.App) {
	bookings := app.Group("/bookings", middleware.Protected())
	bookings.Get("/", controllers.GetUserBookings)
	bookings.Post("/create", controllers.CreateBooking)
	bookings.Post("/extend", controllers.ExtendBooking)
	bookings.Post("/cancel", controllers.CancelBooking)
	// Legacy alias used by older clients
	bookings.Delete("/", controllers.CancelBookingByQuery)

	payments := app.Group("/payments", middleware.Protected())
	payments.Get("/", controllers.GetUserPayments)
	payments.Post("/", controllers.CreatePayment)
}
