package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/securespot/locker-api/booking"
	"github.com/securespot/locker-api/db"
	"github.com/securespot/locker-api/logger"
	"github.com/securespot/locker-api/models"
)

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// GetLockers returns every locker with its location. Expired bookings are
// swept first so the statuses in the response can be trusted as current.
func GetLockers(c *fiber.Ctx) error {
	mgr := booking.NewManager(db.DB)
	if _, err := mgr.SweepExpired(c.Context()); err != nil {
		logger.Log.Error("expiry sweep before locker listing failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch lockers",
		})
	}

	var lockers []models.Locker
	if err := db.DB.Preload("Location").Order("created_at asc").Find(&lockers).Error; err != nil {
		logger.Log.Error("failed to fetch lockers", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch lockers",
		})
	}

	return c.JSON(lockers)
}

// GetLockerAvailability reports whether a locker is free for the requested
// window, supplied as RFC3339 start and end query parameters.
func GetLockerAvailability(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid locker ID",
		})
	}

	type availabilityQuery struct {
		Start string `query:"start"`
		End   string `query:"end"`
	}
	q := new(availabilityQuery)
	if err := c.QueryParser(q); err != nil || q.Start == "" || q.End == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start and end query parameters are required",
		})
	}

	start, err1 := parseRFC3339(q.Start)
	end, err2 := parseRFC3339(q.End)
	if err1 != nil || err2 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start and end must be RFC3339 timestamps",
		})
	}

	mgr := booking.NewManager(db.DB)
	available, err := mgr.IsAvailable(c.Context(), uint(id), start, end)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(fiber.Map{
		"locker_id": id,
		"available": available,
	})
}
