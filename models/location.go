package models

import (
	"gorm.io/gorm"
)

type Location struct {
	gorm.Model
	Name    string   `json:"name"`
	Address string   `json:"address"`
	City    string   `json:"city"`
	Country string   `json:"country"`
	Lat     float64  `json:"lat"`
	Lng     float64  `json:"lng"`
	Lockers []Locker `json:"lockers,omitempty" gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`
}
