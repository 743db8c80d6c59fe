package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/securespot/locker-api/controllers"
)

// SetupLocationRoutes configures the public browse routes
func SetupLocationRoutes(app *fiber.App) {
	locations := app.Group("/locations")
	locations.Get("/", controllers.GetLocations)
	locations.Get("/:id", controllers.GetLocation)

	lockers := app.Group("/lockers")
	lockers.Get("/", controllers.GetLockers)
	lockers.Get("/:id/availability", controllers.GetLockerAvailability)
}
