package models

import (
	"gorm.io/gorm"
)

type LockerSize string

const (
	SizeSmall  LockerSize = "SMALL"
	SizeMedium LockerSize = "MEDIUM"
	SizeLarge  LockerSize = "LARGE"
	SizeXLarge LockerSize = "XLARGE"
)

type LockerStatus string

const (
	LockerAvailable   LockerStatus = "AVAILABLE"
	LockerOccupied    LockerStatus = "OCCUPIED"
	LockerMaintenance LockerStatus = "MAINTENANCE"
	LockerReserved    LockerStatus = "RESERVED"
)

// Locker is the bookable unit. Status is the single source of truth for
// bookability and must stay in sync with the latest non-terminal booking.
type Locker struct {
	gorm.Model
	LocationID uint         `json:"location_id"`
	Location   Location     `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Size       LockerSize   `json:"size" gorm:"type:varchar(16)"`
	Status     LockerStatus `json:"status" gorm:"type:varchar(16);default:'AVAILABLE'"`
	Bookings   []Booking    `json:"bookings,omitempty" gorm:"foreignKey:LockerID;constraint:OnDelete:CASCADE"`
}

func (l *Locker) BeforeCreate(tx *gorm.DB) error {
	if l.Status == "" {
		l.Status = LockerAvailable
	}
	return nil
}
