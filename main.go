package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/securespot/locker-api/cron"

	"github.com/securespot/locker-api/db"

	"github.com/securespot/locker-api/redis"

	"github.com/securespot/locker-api/routes"
)

func main() {
	// One-off maintenance commands: `locker-api migrate`, `locker-api seed`
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			db.Migrate()
			return
		case "seed":
			db.Migrate()
			db.Seed()
			return
		}
	}

	app := fiber.New()
	db.Init()
	redis.InitRedis()
	cron.StartCronJobs()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("SecureSpot API")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupLocationRoutes(app)
	routes.SetupBookingRoutes(app)
	routes.SetupProfileRoutes(app)
	routes.SetupAdminRoutes(app)

	app.Listen(":8000")
	fmt.Println("Server started on port 8000")
}
