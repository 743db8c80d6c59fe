package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/securespot/locker-api/controllers"
	"github.com/securespot/locker-api/middleware"
)

// SetupAdminRoutes configures all admin related routes
func SetupAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin", middleware.Protected(), middleware.RequireAdmin())

	admin.Get("/users", controllers.GetUsers)
	admin.Patch("/users", controllers.UpdateUserRole)
	admin.Delete("/users/:id", controllers.DeleteUser)

	admin.Get("/lockers", controllers.GetAdminLockers)
	admin.Post("/lockers", controllers.CreateLocker)
	admin.Patch("/lockers", controllers.UpdateLockerStatus)

	admin.Get("/bookings", controllers.GetAllBookings)

	admin.Post("/locations", controllers.CreateLocation)
	admin.Delete("/locations/:id", controllers.DeleteLocation)

	admin.Post("/cleanup", controllers.Cleanup)
	admin.Get("/statistics", controllers.GetStatistics)
}
