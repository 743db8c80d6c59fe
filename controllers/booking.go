package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/securespot/locker-api/booking"
	"github.com/securespot/locker-api/db"
	"github.com/securespot/locker-api/logger"
	"github.com/securespot/locker-api/models"
	"github.com/securespot/locker-api/utils"
)

// bookingError maps lifecycle manager errors onto HTTP responses. Unknown
// errors are logged and surfaced as a generic failure so internal
// diagnostics never leak to clients.
func bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNotAvailable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidWindow),
		errors.Is(err, booking.ErrInvalidInput),
		errors.Is(err, booking.ErrExpired),
		errors.Is(err, booking.ErrAlreadyCanceled):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.Log.Error("booking operation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

// CreateBooking reserves a locker for the authenticated user.
func CreateBooking(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	type CreateInput struct {
		LockerID  uint      `json:"locker_id"`
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
	}
	input := new(CreateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.LockerID == 0 || input.StartTime.IsZero() || input.EndTime.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Locker ID, start time, and end time are required",
		})
	}

	mgr := booking.NewManager(db.DB)
	created, err := mgr.Create(c.Context(), userID, input.LockerID, input.StartTime, input.EndTime)
	if err != nil {
		return bookingError(c, err)
	}

	// Receipt email is best effort, a delivery failure never fails the booking.
	var user models.User
	if db.DB.First(&user, userID).RowsAffected > 0 && user.Email != "" {
		amount := float64(0)
		var payment models.Payment
		if db.DB.Where("booking_id = ?", created.ID).First(&payment).RowsAffected > 0 {
			amount = payment.Amount
		}
		go func(b models.Booking, to, name string, amount float64) {
			if err := utils.SendBookingReceipt(to, name, b.LockerID, b.StartTime, b.EndTime, amount); err != nil {
				logger.Log.Warn("failed to send booking receipt", "booking_id", b.ID, "error", err)
			}
		}(*created, user.Email, user.Name, amount)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Booking created successfully",
		"booking": created,
	})
}

// ExtendBooking pushes out the end time of one of the caller's bookings.
func ExtendBooking(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	type ExtendInput struct {
		BookingID       uint `json:"booking_id"`
		AdditionalHours int  `json:"additional_hours"`
	}
	input := new(ExtendInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.BookingID == 0 || input.AdditionalHours == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Booking ID and additional hours are required",
		})
	}

	mgr := booking.NewManager(db.DB)
	updated, err := mgr.Extend(c.Context(), input.BookingID, userID, input.AdditionalHours)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Booking extended successfully",
		"booking": updated,
	})
}

func cancelBooking(c *fiber.Ctx, bookingID uint) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	mgr := booking.NewManager(db.DB)
	refund, canceled, err := mgr.Cancel(c.Context(), bookingID, userID)
	if err != nil {
		return bookingError(c, err)
	}

	var refundAmount interface{}
	if refund > 0 {
		refundAmount = refund
	}
	return c.JSON(fiber.Map{
		"message":       "Booking canceled successfully",
		"booking":       canceled,
		"refund_amount": refundAmount,
	})
}

// CancelBooking cancels one of the caller's bookings and reports the refund.
func CancelBooking(c *fiber.Ctx) error {
	type CancelInput struct {
		BookingID uint `json:"booking_id"`
	}
	input := new(CancelInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.BookingID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Booking ID is required",
		})
	}
	return cancelBooking(c, input.BookingID)
}

// CancelBookingByQuery is the legacy DELETE /bookings?id= alias kept for
// older clients.
func CancelBookingByQuery(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Query("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Booking ID is required",
		})
	}
	return cancelBooking(c, uint(id))
}

// GetUserBookings lists the caller's bookings, newest start time first.
func GetUserBookings(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var bookings []models.Booking
	err := db.DB.
		Preload("Locker").
		Preload("Locker.Location").
		Preload("Payments").
		Where("user_id = ?", userID).
		Order("start_time desc").
		Find(&bookings).Error
	if err != nil {
		logger.Log.Error("failed to fetch bookings", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch bookings",
		})
	}

	return c.JSON(bookings)
}
