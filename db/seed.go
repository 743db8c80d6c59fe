package db

import (
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/securespot/locker-api/models"
)

// Seed provisions the admin account and a demo location with nine lockers.
// It is idempotent: existing rows are left untouched, so it can run on every
// deploy. The admin credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func Seed() {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@securespot.com"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
		log.Println("Warning: ADMIN_PASSWORD not set, using default seed password")
	}

	var admin models.User
	if DB.Where("email = ?", adminEmail).First(&admin).RowsAffected == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Failed to hash admin password: ", err)
		}
		now := time.Now()
		admin = models.User{
			Name:          "Admin",
			Email:         adminEmail,
			Password:      string(hashed),
			Role:          models.RoleAdmin,
			EmailVerified: &now,
		}
		if err := DB.Create(&admin).Error; err != nil {
			log.Fatal("Failed to seed admin user: ", err)
		}
		log.Printf("Seeded admin user %s", adminEmail)
	}

	var count int64
	DB.Model(&models.Location{}).Where("name = ?", "Central Station").Count(&count)
	if count == 0 {
		central := models.Location{
			Name:    "Central Station",
			Address: "123 Main Street",
			City:    "New York",
			Country: "USA",
			Lat:     40.7128,
			Lng:     -74.006,
			Lockers: []models.Locker{
				{Size: models.SizeSmall, Status: models.LockerAvailable},
				{Size: models.SizeSmall, Status: models.LockerAvailable},
				{Size: models.SizeSmall, Status: models.LockerAvailable},
				{Size: models.SizeMedium, Status: models.LockerAvailable},
				{Size: models.SizeMedium, Status: models.LockerAvailable},
				{Size: models.SizeMedium, Status: models.LockerAvailable},
				{Size: models.SizeLarge, Status: models.LockerAvailable},
				{Size: models.SizeLarge, Status: models.LockerAvailable},
				{Size: models.SizeLarge, Status: models.LockerAvailable},
			},
		}
		if err := DB.Create(&central).Error; err != nil {
			log.Fatal("Failed to seed Central Station: ", err)
		}
		log.Println("Seeded Central Station with 9 lockers")
	}
}
