package models

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name"`
	Email         string     `json:"email" gorm:"unique"`
	Password      string     `json:"password,omitempty"`
	Role          UserRole   `json:"role" gorm:"type:varchar(16);default:'USER'"`
	Image         string     `json:"image,omitempty"`
	EmailVerified *time.Time `json:"email_verified,omitempty"`
	OTP           string     `json:"-"`
	OTPExpiresAt  time.Time  `json:"-"`
	Bookings      []Booking  `json:"bookings,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Payments      []Payment  `json:"payments,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
