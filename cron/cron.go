package cron

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/securespot/locker-api/booking"
	"github.com/securespot/locker-api/db"
	"github.com/securespot/locker-api/logger"
)

// StartCronJobs initializes and starts the cron scheduler for the expiry
// sweep
func StartCronJobs() {
	c := cron.New()
	// Run every minute so locker statuses never lag far behind booking
	// end times
	_, err := c.AddFunc("* * * * *", sweepExpiredBookings)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for booking expiry sweep")
}

// sweepExpiredBookings flips elapsed ACTIVE bookings to EXPIRED and frees
// their lockers
func sweepExpiredBookings() {
	mgr := booking.NewManager(db.DB)
	swept, err := mgr.SweepExpired(context.Background())
	if err != nil {
		logger.Log.Error("expiry sweep failed", "error", err)
		return
	}
	if swept > 0 {
		logger.Log.Info("expiry sweep completed", "expired_bookings", swept)
	}
}
