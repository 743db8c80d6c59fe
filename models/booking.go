package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingActive    BookingStatus = "ACTIVE"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCanceled  BookingStatus = "CANCELED"
	BookingExpired   BookingStatus = "EXPIRED"
)

// Terminal reports whether no further transitions are allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCanceled || s == BookingExpired
}

type Booking struct {
	gorm.Model
	UserID    uint          `json:"user_id"`
	User      User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	LockerID  uint          `json:"locker_id"`
	Locker    Locker        `json:"locker,omitempty" gorm:"foreignKey:LockerID"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Status    BookingStatus `json:"status" gorm:"type:varchar(16);default:'ACTIVE'"`
	Payments  []Payment     `json:"payments,omitempty" gorm:"foreignKey:BookingID"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = BookingActive
	}
	return nil
}

// UpdateStatus enforces the lifecycle state machine: ACTIVE may move to any
// terminal state, terminal states admit no transitions.
func (b *Booking) UpdateStatus(tx *gorm.DB, newStatus BookingStatus) error {
	if b.Status.Terminal() {
		return fmt.Errorf("no transitions allowed from %s", b.Status)
	}
	if !newStatus.Terminal() {
		return fmt.Errorf("invalid transition from %s to %s", b.Status, newStatus)
	}
	b.Status = newStatus
	return tx.Save(b).Error
}
