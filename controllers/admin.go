package controllers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/securespot/locker-api/booking"
	"github.com/securespot/locker-api/db"
	"github.com/securespot/locker-api/logger"
	"github.com/securespot/locker-api/models"
	"github.com/securespot/locker-api/redis"
)

const statisticsCacheKey = "admin:statistics"

// GetUsers lists all users for the admin table. Passwords and OTP fields
// are never included.
func GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := db.DB.Select("id", "name", "email", "role", "image", "email_verified", "created_at").
		Order("created_at desc").Find(&users).Error; err != nil {
		logger.Log.Error("failed to fetch users", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}
	return c.JSON(users)
}

// UpdateUserRole changes a user's role between USER and ADMIN.
func UpdateUserRole(c *fiber.Ctx) error {
	type RoleInput struct {
		UserID uint            `json:"user_id"`
		Role   models.UserRole `json:"role"`
	}
	input := new(RoleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.UserID == 0 || (input.Role != models.RoleUser && input.Role != models.RoleAdmin) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID and a valid role are required",
		})
	}

	var user models.User
	if db.DB.First(&user, input.UserID).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := db.DB.Model(&user).Update("role", input.Role).Error; err != nil {
		logger.Log.Error("failed to update user role", "user_id", input.UserID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user role",
		})
	}

	user.Password = ""
	return c.JSON(user)
}

// DeleteUser removes a user; bookings and payments cascade away with it.
func DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	var user models.User
	if db.DB.First(&user, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := db.DB.Select("Bookings", "Payments").Delete(&user).Error; err != nil {
		logger.Log.Error("failed to delete user", "user_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetAllBookings lists every booking with user and locker for the admin
// table.
func GetAllBookings(c *fiber.Ctx) error {
	var bookings []models.Booking
	err := db.DB.
		Preload("User").
		Preload("Locker").
		Preload("Locker.Location").
		Order("created_at desc").
		Find(&bookings).Error
	if err != nil {
		logger.Log.Error("failed to fetch bookings", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch bookings",
		})
	}

	// Strip password hashes from the embedded users
	for i := range bookings {
		bookings[i].User.Password = ""
	}

	return c.JSON(bookings)
}

// GetAdminLockers lists all lockers with their locations, newest first.
func GetAdminLockers(c *fiber.Ctx) error {
	var lockers []models.Locker
	if err := db.DB.Preload("Location").Order("created_at desc").Find(&lockers).Error; err != nil {
		logger.Log.Error("failed to fetch lockers", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch lockers",
		})
	}
	return c.JSON(lockers)
}

// CreateLocker adds a locker to a location.
func CreateLocker(c *fiber.Ctx) error {
	locker := new(models.Locker)
	if err := c.BodyParser(locker); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if locker.LocationID == 0 || locker.Size == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Location ID and size are required",
		})
	}

	var location models.Location
	if db.DB.First(&location, locker.LocationID).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	if err := db.DB.Create(&locker).Error; err != nil {
		logger.Log.Error("failed to create locker", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create locker",
		})
	}

	redis.Invalidate(locationsCacheKey)
	return c.Status(fiber.StatusCreated).JSON(locker)
}

// UpdateLockerStatus sets a locker's status, e.g. to take it into
// maintenance.
func UpdateLockerStatus(c *fiber.Ctx) error {
	type StatusInput struct {
		LockerID uint                `json:"locker_id"`
		Status   models.LockerStatus `json:"status"`
	}
	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	switch input.Status {
	case models.LockerAvailable, models.LockerOccupied, models.LockerMaintenance, models.LockerReserved:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid locker status",
		})
	}
	if input.LockerID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Locker ID is required",
		})
	}

	var locker models.Locker
	if db.DB.First(&locker, input.LockerID).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Locker not found",
		})
	}

	if err := db.DB.Model(&locker).Update("status", input.Status).Error; err != nil {
		logger.Log.Error("failed to update locker", "locker_id", input.LockerID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update locker",
		})
	}

	redis.Invalidate(locationsCacheKey)
	return c.JSON(locker)
}

// Cleanup runs the expiry sweep on demand and reports how many bookings
// were transitioned.
func Cleanup(c *fiber.Ctx) error {
	mgr := booking.NewManager(db.DB)
	swept, err := mgr.SweepExpired(c.Context())
	if err != nil {
		logger.Log.Error("cleanup sweep failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to perform cleanup",
		})
	}

	return c.JSON(fiber.Map{
		"message":          "Cleanup completed successfully",
		"updated_bookings": swept,
	})
}

// GetStatistics aggregates platform totals for the admin dashboard. The
// result is cached in Redis for 30 seconds since every admin page load
// requests it.
func GetStatistics(c *fiber.Ctx) error {
	if cached := redis.GetCached(statisticsCacheKey); cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	var statistics struct {
		TotalUsers     int64     `json:"total_users"`
		TotalLocations int64     `json:"total_locations"`
		ActiveLockers  int64     `json:"active_lockers"`
		ActiveBookings int64     `json:"active_bookings"`
		TotalRevenue   float64   `json:"total_revenue"`
		LastUpdated    time.Time `json:"last_updated"`
	}

	now := time.Now()
	db.DB.Model(&models.User{}).Count(&statistics.TotalUsers)
	db.DB.Model(&models.Location{}).Count(&statistics.TotalLocations)
	db.DB.Model(&models.Locker{}).
		Where("status <> ?", models.LockerMaintenance).
		Count(&statistics.ActiveLockers)
	db.DB.Model(&models.Booking{}).
		Where("status = ? AND end_time > ?", models.BookingActive, now).
		Count(&statistics.ActiveBookings)

	// Refunds are negative entries, so the plain sum is net revenue.
	err := db.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&statistics.TotalRevenue).Error
	if err != nil {
		logger.Log.Error("failed to aggregate revenue", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch statistics",
		})
	}
	statistics.LastUpdated = now

	if payload, err := json.Marshal(statistics); err == nil {
		redis.SetCached(statisticsCacheKey, string(payload), 30*time.Second)
	}

	return c.JSON(statistics)
}
