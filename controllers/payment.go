package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/securespot/locker-api/db"
	"github.com/securespot/locker-api/logger"
	"github.com/securespot/locker-api/models"
)

// CreatePayment records a manual ledger entry against one of the caller's
// bookings. In a real deployment this would stay PENDING until a payment
// processor confirms it.
func CreatePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	type PaymentInput struct {
		BookingID uint    `json:"booking_id"`
		Amount    float64 `json:"amount"`
	}
	input := new(PaymentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.BookingID == 0 || input.Amount == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Booking ID and amount are required",
		})
	}

	// Verify the booking belongs to the caller
	var booking models.Booking
	if db.DB.Where("id = ? AND user_id = ?", input.BookingID, userID).
		First(&booking).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}

	payment := models.Payment{
		BookingID: input.BookingID,
		UserID:    userID,
		Amount:    input.Amount,
		Status:    models.PaymentCompleted,
	}
	if err := db.DB.Create(&payment).Error; err != nil {
		logger.Log.Error("failed to create payment", "booking_id", input.BookingID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process payment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(payment)
}

// GetUserPayments lists the caller's ledger entries, newest first.
func GetUserPayments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var payments []models.Payment
	if err := db.DB.Where("user_id = ?", userID).
		Order("created_at desc").Find(&payments).Error; err != nil {
		logger.Log.Error("failed to fetch payments", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}

	return c.JSON(payments)
}
