package booking

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/securespot/locker-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.Locker{},
		&models.Booking{},
		&models.Payment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// seedLocker creates a user, a location and one locker and returns their IDs.
func seedLocker(t *testing.T, db *gorm.DB, status models.LockerStatus) (userID, lockerID uint) {
	t.Helper()
	user := models.User{Name: "Test User", Email: "user@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	location := models.Location{Name: "Central Station", Address: "123 Main Street"}
	if err := db.Create(&location).Error; err != nil {
		t.Fatalf("failed to seed location: %v", err)
	}
	locker := models.Locker{LocationID: location.ID, Size: models.SizeMedium, Status: status}
	if err := db.Create(&locker).Error; err != nil {
		t.Fatalf("failed to seed locker: %v", err)
	}
	return user.ID, locker.ID
}

func reloadLocker(t *testing.T, db *gorm.DB, id uint) models.Locker {
	t.Helper()
	var locker models.Locker
	if err := db.First(&locker, id).Error; err != nil {
		t.Fatalf("failed to reload locker: %v", err)
	}
	return locker
}

func completedPayments(t *testing.T, db *gorm.DB, bookingID uint) []models.Payment {
	t.Helper()
	var payments []models.Payment
	err := db.Where("booking_id = ? AND status = ?", bookingID, models.PaymentCompleted).
		Order("id asc").Find(&payments).Error
	if err != nil {
		t.Fatalf("failed to load payments: %v", err)
	}
	return payments
}

func TestCreateBooking(t *testing.T) {
	db := newTestDB(t)
	userID, lockerID := seedLocker(t, db, models.LockerAvailable)
	mgr := NewManager(db)

	start := time.Now().Add(time.Hour)
	end := start.Add(2 * time.Hour)
	created, err := mgr.Create(context.Background(), userID, lockerID, start, end)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != models.BookingActive {
		t.Errorf("booking status = %s, want ACTIVE", created.Status)
	}

	if got := reloadLocker(t, db, lockerID).Status; got != models.LockerOccupied {
		t.Errorf("locker status = %s, want OCCUPIED", got)
	}

	payments := completedPayments(t, db, created.ID)
	if len(payments) != 1 {
		t.Fatalf("payment count = %d, want 1", len(payments))
	}
	if payments[0].Amount != 10 {
		t.Errorf("payment amount = %v, want 10 (2h at the hourly rate)", payments[0].Amount)
	}
	if payments[0].Reference == "" {
		t.Error("payment reference not generated")
	}
}

func TestCreateBookingValidation(t *testing.T) {
	db := newTestDB(t)
	userID, lockerID := seedLocker(t, db, models.LockerAvailable)
	mgr := NewManager(db)
	now := time.Now()

	for _, tc := range []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"start in the past", now.Add(-time.Hour), now.Add(time.Hour), ErrInvalidWindow},
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour), ErrInvalidWindow},
		{"end equals start", now.Add(time.Hour), now.Add(time.Hour), ErrInvalidWindow},
		{"duration above 24h", now.Add(time.Hour), now.Add(26 * time.Hour), ErrInvalidInput},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mgr.Create(context.Background(), userID, lockerID, tc.start, tc.end)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Create error = %v, want %v", err, tc.wantErr)
			}
		})
	}

	// Validation failures must leave no partial state behind.
	var bookings int64
	db.Model(&models.Booking{}).Count(&bookings)
	if bookings != 0 {
		t.Errorf("booking count after rejected creates = %d, want 0", bookings)
	}
	if got := reloadLocker(t, db, lockerID).Status; got != models.LockerAvailable {
		t.Errorf("locker status = %s, want AVAILABLE", got)
	}
}

func TestCreateBookingUnknownLocker(t *testing.T) {
	db := newTestDB(t)
	userID, _ := seedLocker(t, db, models.LockerAvailable)
	mgr := NewManager(db)

	start := time.Now().Add(time.Hour)
	_, err := mgr.Create(context.Background(), userID, 9999, start, start.Add(time.Hour))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Create error = %v, want ErrNotFound", err)
	}
}

func TestCreateBookingFailsClosed(t *testing.T) {
	db := newTestDB(t)
	userID, lockerID := seedLocker(t, db, models.LockerMaintenance)
	mgr := NewManager(db)

	start := time.Now().Add(time.Hour)
	_, err := mgr.Create(context.Background(), userID, lockerID, start, start.Add(time.Hour))
	if !errors.Is(err, ErrNotAvailable) {
		t.Errorf("Create on MAINTENANCE locker error = %v, want ErrNotAvailable", err)
	}
}

func TestCreateBookingOverlap(t *testing.T) {
	db := newTestDB(t)
	userID, lockerID := seedLocker(t, db, models.LockerAvailable)
	mgr := NewManager(db)

	start := time.Now().Add(time.Hour)
	end := start.Add(3 * time.Hour)
	if _, err := mgr.Create(context.Background(), userID, lockerID, start, end); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Second booking for an overlapping window must lose.
	_, err := mgr.Create(context.Background(), userID, lockerID, start.Add(time.Hour), end.Add(time.Hour))
	if !errors.Is(err, ErrNotAvailable) {
		t.Errorf("overlapping Create error = %v, want ErrNotAvailable", err)
	}

	var bookings int64
	db.Model(&models.Booking{}).Where("status = ?", models.BookingActive).Count(&bookings)
	if bookings != 1 {
		t.Errorf("active booking count = %d, want 1", bookings)
	}
}

func TestIsAvailable(t *testing.T) {
	db := newTestDB(t)
	userID, lockerID := seedLocker(t, db, models.LockerAvailable)
	mgr := NewManager(db)

	start := time.Now().Add(time.Hour)
	end := start.Add(2 * time.Hour)

	available, err := mgr.IsAvailable(context.Background(), lockerID, start, end)
	if err != nil {
		t.Fatalf("IsAvailable failed: %v", err)
	}
	if !available {
		t.Error("fresh locker reported unavailable")
	}

	// An ACTIVE booking on the window blocks it even while the stored
	// status is still AVAILABLE.
	seeded := models.Booking{
		UserID: userID, LockerID: lockerID,
		StartTime: start, EndTime: end,
		Status: models.BookingActive,
	}
	if err := db.Create(&seeded).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}

	available, err = mgr.IsAvailable(context.Background(), lockerID, start.Add(time.Hour), end.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("IsAvailable failed: %v", err)
	}
	if available {
		t.Error("overlapping window reported available")
	}

	// Adjacent window [end, end+1h) does not overlap [start, end).
	available, err = mgr.IsAvailable(context.Background(), lockerID, end, end.Add(time.Hour))
	if err != nil {
		t.Fatalf("IsAvailable failed: %v", err)
	}
	if !available {
		t.Error("adjacent window reported unavailable")
	}

	// Any non-AVAILABLE status fails closed regardless of the window.
	db.Model(&models.Locker{}).Where("id = ?", lockerID).Update("status", models.LockerMaintenance)
	available, err = mgr.IsAvailable(context.Background(), lockerID, end.Add(time.Hour), end.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("IsAvailable failed: %v", err)
	}
	if available {
		t.Error("MAINTENANCE locker reported available")
	}

	if _, err := mgr.IsAvailable(context.Background(), 9999, start, end); !errors.Is(err, ErrNotFound) {
		t.Errorf("IsAvailable on unknown locker error = %v, want ErrNotFound", err)
	}
}

func TestExtendBooking(t *testing.T) {
	db := newTestDB(t)
	userID, lockerID := seedLocker(t, db, models.LockerAvailable)
	mgr := NewManager(db)

	start := time.Now().Add(time.Hour)
	created, err := mgr.Create(context.Background(), userID, lockerID, start, start.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := mgr.Extend(context.Background(), created.ID, userID, 3)
	if err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	wantEnd := created.EndTime.Add(3 * time.Hour)
	if !updated.EndTime.Equal(wantEnd) {
		t.Errorf("end time = %v, want %v", updated.EndTime, wantEnd)
	}

	payments := completedPayments(t, db, created.ID)
	if len(payments) != 2 {
		t.Fatalf("payment count = %d, want 2", len(payments))
	}
	if payments[1].Amount != 15 {
		t.Errorf("extension payment = %v, want 15 (3h at the hourly rate)", payments[1].Amount)
	}
}

func TestExtendBookingErrors(t *testing.T) {
	db := newTestDB(t)
	userID, lockerID := seedLocker(t, db, models.LockerAvailable)
	mgr := NewManager(db)

	start := time.Now().Add(time.Hour)
	created, err := mgr.Create(context.Background(), userID, lockerID, start, start.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("unknown booking", func(t *testing.T) {
		if _, err := mgr.Extend(context.Background(), 9999, userID, 1); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		if _, err := mgr.Extend(context.Background(), created.ID, userID+1, 1); !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("invalid hours", func(t *testing.T) {
		for _, hours := range []int{0, -1, 25} {
			if _, err := mgr.Extend(context.Background(), created.ID, userID, hours); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Extend(%d) error = %v, want ErrInvalidInput", hours, err)
			}
		}
	})

	t.Run("expired booking mutates nothing", func(t *testing.T) {
		expired := models.Booking{
			UserID: userID, LockerID: lockerID,
			StartTime: time.Now().Add(-3 * time.Hour),
			EndTime:   time.Now().Add(-time.Hour),
			Status:    models.BookingActive,
		}
		if err := db.Create(&expired).Error; err != nil {
			t.Fatalf("failed to seed expired booking: %v", err)
		}

		if _, err := mgr.Extend(context.Background(), expired.ID, userID, 2); !errors.Is(err, ErrExpired) {
			t.Errorf("error = %v, want ErrExpired", err)
		}

		var reloaded models.Booking
		if err := db.First(&reloaded, expired.ID).Error; err != nil {
			t.Fatalf("failed to reload booking: %v", err)
		}
		if !reloaded.EndTime.Equal(expired.EndTime) {
			t.Errorf("end time changed to %v after failed extend", reloaded.EndTime)
		}
		if got := len(completedPayments(t, db, expired.ID)); got != 0 {
			t.Errorf("payment count = %d, want 0", got)
		}
	})

	t.Run("canceled booking", func(t *testing.T) {
		if _, _, err := mgr.Cancel(context.Background(), created.ID, userID); err != nil {
			t.Fatalf("Cancel failed: %v", err)
		}
		if _, err := mgr.Extend(context.Background(), created.ID, userID, 1); !errors.Is(err, ErrAlreadyCanceled) {
			t.Errorf("error = %v, want ErrAlreadyCanceled", err)
		}
	})
}

func TestCancelRefundTiers(t *testing.T) {
	for _, tc := range []struct {
		name       string
		hoursAhead int
		wantRefund float64
	}{
		{"more than 24h before start", 48, 50},
		{"between 12 and 24h before start", 18, 25},
		{"inside 12h before start", 6, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			userID, lockerID := seedLocker(t, db, models.LockerAvailable)
			mgr := NewManager(db)

			// 10 hours at the hourly rate = $50 paid.
			start := time.Now().Add(time.Duration(tc.hoursAhead) * time.Hour)
			created, err := mgr.Create(context.Background(), userID, lockerID, start, start.Add(10*time.Hour))
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			refund, canceled, err := mgr.Cancel(context.Background(), created.ID, userID)
			if err != nil {
				t.Fatalf("Cancel failed: %v", err)
			}
			if refund != tc.wantRefund {
				t.Errorf("refund = %v, want %v", refund, tc.wantRefund)
			}
			if canceled.Status != models.BookingCanceled {
				t.Errorf("booking status = %s, want CANCELED", canceled.Status)
			}
			if got := reloadLocker(t, db, lockerID).Status; got != models.LockerAvailable {
				t.Errorf("locker status = %s, want AVAILABLE", got)
			}

			payments := completedPayments(t, db, created.ID)
			if tc.wantRefund > 0 {
				if len(payments) != 2 {
					t.Fatalf("payment count = %d, want 2", len(payments))
				}
				if payments[1].Amount != -tc.wantRefund {
					t.Errorf("refund payment = %v, want %v", payments[1].Amount, -tc.wantRefund)
				}
			} else if len(payments) != 1 {
				t.Errorf("payment count = %d, want 1 (no refund row)", len(payments))
			}
		})
	}
}

func TestCancelErrors(t *testing.T) {
	db := newTestDB(t)
	userID, lockerID := seedLocker(t, db, models.LockerAvailable)
	mgr := NewManager(db)

	start := time.Now().Add(time.Hour)
	created, err := mgr.Create(context.Background(), userID, lockerID, start, start.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, _, err := mgr.Cancel(context.Background(), 9999, userID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Cancel unknown booking error = %v, want ErrNotFound", err)
	}
	if _, _, err := mgr.Cancel(context.Background(), created.ID, userID+1); !errors.Is(err, ErrForbidden) {
		t.Errorf("Cancel by non-owner error = %v, want ErrForbidden", err)
	}

	if _, _, err := mgr.Cancel(context.Background(), created.ID, userID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, _, err := mgr.Cancel(context.Background(), created.ID, userID); !errors.Is(err, ErrAlreadyCanceled) {
		t.Errorf("second Cancel error = %v, want ErrAlreadyCanceled", err)
	}
}

func TestSweepExpired(t *testing.T) {
	db := newTestDB(t)
	userID, lockerID := seedLocker(t, db, models.LockerOccupied)
	mgr := NewManager(db)

	stale := models.Booking{
		UserID: userID, LockerID: lockerID,
		StartTime: time.Now().Add(-4 * time.Hour),
		EndTime:   time.Now().Add(-time.Hour),
		Status:    models.BookingActive,
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("failed to seed stale booking: %v", err)
	}

	swept, err := mgr.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if swept != 1 {
		t.Errorf("swept = %d, want 1", swept)
	}

	var reloaded models.Booking
	if err := db.First(&reloaded, stale.ID).Error; err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	if reloaded.Status != models.BookingExpired {
		t.Errorf("booking status = %s, want EXPIRED", reloaded.Status)
	}
	if got := reloadLocker(t, db, lockerID).Status; got != models.LockerAvailable {
		t.Errorf("locker status = %s, want AVAILABLE", got)
	}

	// Sweeping again finds nothing to do.
	swept, err = mgr.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("second SweepExpired failed: %v", err)
	}
	if swept != 0 {
		t.Errorf("second sweep = %d, want 0", swept)
	}
}

func TestSweepKeepsLockerWithNewerBooking(t *testing.T) {
	db := newTestDB(t)
	userID, lockerID := seedLocker(t, db, models.LockerOccupied)
	mgr := NewManager(db)

	stale := models.Booking{
		UserID: userID, LockerID: lockerID,
		StartTime: time.Now().Add(-4 * time.Hour),
		EndTime:   time.Now().Add(-time.Hour),
		Status:    models.BookingActive,
	}
	current := models.Booking{
		UserID: userID, LockerID: lockerID,
		StartTime: time.Now().Add(-30 * time.Minute),
		EndTime:   time.Now().Add(2 * time.Hour),
		Status:    models.BookingActive,
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("failed to seed stale booking: %v", err)
	}
	if err := db.Create(&current).Error; err != nil {
		t.Fatalf("failed to seed current booking: %v", err)
	}

	if _, err := mgr.SweepExpired(context.Background()); err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}

	if got := reloadLocker(t, db, lockerID).Status; got != models.LockerOccupied {
		t.Errorf("locker status = %s, want OCCUPIED while a newer booking is active", got)
	}
}

// TestImmediateCancelScenario walks the documented end-to-end case: book a
// locker one hour ahead for two hours, then cancel right away. The refund
// is zero (start is under 12 hours away) but the locker frees immediately
// because its window has not elapsed.
func TestImmediateCancelScenario(t *testing.T) {
	db := newTestDB(t)
	userID, lockerID := seedLocker(t, db, models.LockerAvailable)
	mgr := NewManager(db)

	start := time.Now().Add(time.Hour)
	created, err := mgr.Create(context.Background(), userID, lockerID, start, start.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := reloadLocker(t, db, lockerID).Status; got != models.LockerOccupied {
		t.Fatalf("locker status after create = %s, want OCCUPIED", got)
	}
	payments := completedPayments(t, db, created.ID)
	if len(payments) != 1 || payments[0].Amount != 10 {
		t.Fatalf("payments after create = %+v, want one $10 charge", payments)
	}

	refund, _, err := mgr.Cancel(context.Background(), created.ID, userID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if refund != 0 {
		t.Errorf("refund = %v, want 0", refund)
	}
	if got := reloadLocker(t, db, lockerID).Status; got != models.LockerAvailable {
		t.Errorf("locker status after cancel = %s, want AVAILABLE", got)
	}
}
