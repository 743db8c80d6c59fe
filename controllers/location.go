package controllers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/securespot/locker-api/db"
	"github.com/securespot/locker-api/logger"
	"github.com/securespot/locker-api/models"
	"github.com/securespot/locker-api/redis"
)

const locationsCacheKey = "locations:all"

// GetLocations returns every location with its lockers, alphabetically.
// The listing is public and read-heavy, so it is served from Redis when
// possible.
func GetLocations(c *fiber.Ctx) error {
	if cached := redis.GetCached(locationsCacheKey); cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	var locations []models.Location
	if err := db.DB.Preload("Lockers").Order("name asc").Find(&locations).Error; err != nil {
		logger.Log.Error("failed to fetch locations", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch locations",
		})
	}

	if payload, err := json.Marshal(locations); err == nil {
		redis.SetCached(locationsCacheKey, string(payload), time.Minute)
	}

	return c.JSON(locations)
}

// GetLocation returns a single location with its lockers.
func GetLocation(c *fiber.Ctx) error {
	id := c.Params("id")
	var location models.Location
	if err := db.DB.Preload("Lockers").First(&location, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}
	return c.JSON(location)
}

// CreateLocation adds a new location. Admin only.
func CreateLocation(c *fiber.Ctx) error {
	location := new(models.Location)
	if err := c.BodyParser(location); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if location.Name == "" || location.Address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and address are required",
		})
	}

	if err := db.DB.Create(&location).Error; err != nil {
		logger.Log.Error("failed to create location", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create location",
		})
	}

	redis.Invalidate(locationsCacheKey)
	return c.Status(fiber.StatusCreated).JSON(location)
}

// DeleteLocation removes a location and, by cascade, its lockers. Admin only.
func DeleteLocation(c *fiber.Ctx) error {
	id := c.Params("id")
	var location models.Location
	if err := db.DB.First(&location, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	if err := db.DB.Select("Lockers").Delete(&location).Error; err != nil {
		logger.Log.Error("failed to delete location", "location_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete location",
		})
	}

	redis.Invalidate(locationsCacheKey)
	return c.SendStatus(fiber.StatusNoContent)
}
