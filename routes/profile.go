package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/securespot/locker-api/controllers"
	"github.com/securespot/locker-api/middleware"
)

// SetupProfileRoutes configures all profile related routes
func SetupProfileRoutes(app *fiber.App) {
	profile := app.Group("/profile", middleware.Protected())
	profile.Get("/", controllers.GetProfile)
	profile.Patch("/", controllers.UpdateProfile)
	profile.Put("/password", controllers.UpdatePassword)
	profile.Post("/picture", controllers.UpdateProfilePicture)
}
