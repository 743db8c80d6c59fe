package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Payment is a ledger entry tied to a booking. A negative amount records a
// refund. Rows persist after the booking is canceled.
type Payment struct {
	gorm.Model
	BookingID uint          `json:"booking_id"`
	UserID    uint          `json:"user_id"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `json:"status" gorm:"type:varchar(16);default:'PENDING'"`
	Reference string        `json:"reference" gorm:"uniqueIndex"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = PaymentPending
	}
	if p.Reference == "" {
		p.Reference = uuid.NewString()
	}
	return nil
}
