package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/securespot/locker-api/models"
)

// Manager owns the booking lifecycle: availability checks, creation,
// extension, cancellation and the expiry sweep. Every mutation runs as a
// single transaction so a booking is never visible without its payment and
// locker status update.
type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// lockForUpdate adds a row lock so concurrent requests cannot both see an
// available locker. SQLite has no FOR UPDATE; its single-writer lock already
// serializes the transaction there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// overlapExistsTx reports whether any ACTIVE booking on the locker overlaps
// [start, end). Two windows [s1,e1) and [s2,e2) overlap when s1 < e2 and
// s2 < e1.
func overlapExistsTx(tx *gorm.DB, lockerID uint, start, end time.Time) (bool, error) {
	var conflict models.Booking
	err := tx.Where("locker_id = ? AND status = ?", lockerID, models.BookingActive).
		Where("start_time < ? AND end_time > ?", end, start).
		Take(&conflict).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// sweepLockerTx expires stale ACTIVE bookings on a single locker and frees
// the locker when nothing active remains. It keeps availability reads
// current without waiting for the cron sweep.
func sweepLockerTx(tx *gorm.DB, locker *models.Locker, now time.Time) error {
	err := tx.Model(&models.Booking{}).
		Where("locker_id = ? AND status = ? AND end_time < ?", locker.ID, models.BookingActive, now).
		Update("status", models.BookingExpired).Error
	if err != nil {
		return err
	}
	if locker.Status != models.LockerOccupied {
		return nil
	}
	var remaining int64
	err = tx.Model(&models.Booking{}).
		Where("locker_id = ? AND status = ? AND end_time > ?", locker.ID, models.BookingActive, now).
		Count(&remaining).Error
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := tx.Model(locker).Update("status", models.LockerAvailable).Error; err != nil {
			return err
		}
		locker.Status = models.LockerAvailable
	}
	return nil
}

// IsAvailable reports whether the locker can be booked for [start, end).
// It fails closed: any stored status other than AVAILABLE makes the locker
// unavailable regardless of the window.
func (m *Manager) IsAvailable(ctx context.Context, lockerID uint, start, end time.Time) (bool, error) {
	var locker models.Locker
	if err := m.db.WithContext(ctx).First(&locker, lockerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if locker.Status != models.LockerAvailable {
		return false, nil
	}
	overlap, err := overlapExistsTx(m.db.WithContext(ctx), lockerID, start, end)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

// Create books a locker for [start, end) and records the charge. The
// availability check, booking insert, payment insert and locker status
// change happen in one transaction with the locker row locked, so two
// concurrent requests cannot both succeed for overlapping windows.
func (m *Manager) Create(ctx context.Context, userID, lockerID uint, start, end time.Time) (*models.Booking, error) {
	now := time.Now()
	if start.Before(now) {
		return nil, ErrInvalidWindow
	}
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}
	amount, err := Cost(durationHours(start, end))
	if err != nil {
		return nil, err
	}

	var created models.Booking
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locker models.Locker
		if err := lockForUpdate(tx).First(&locker, lockerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := sweepLockerTx(tx, &locker, now); err != nil {
			return err
		}
		if locker.Status != models.LockerAvailable {
			return ErrNotAvailable
		}
		overlap, err := overlapExistsTx(tx, lockerID, start, end)
		if err != nil {
			return err
		}
		if overlap {
			return ErrNotAvailable
		}

		created = models.Booking{
			UserID:    userID,
			LockerID:  lockerID,
			StartTime: start.UTC(),
			EndTime:   end.UTC(),
			Status:    models.BookingActive,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		payment := models.Payment{
			BookingID: created.ID,
			UserID:    userID,
			Amount:    amount,
			Status:    models.PaymentCompleted,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&locker).Update("status", models.LockerOccupied).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Extend pushes the booking's end time out by additionalHours and records
// the extra charge. Only the owner may extend, and only while the booking
// is still active.
func (m *Manager) Extend(ctx context.Context, bookingID, userID uint, additionalHours int) (*models.Booking, error) {
	amount, err := Cost(additionalHours)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var updated models.Booking
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&updated, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if updated.UserID != userID {
			return ErrForbidden
		}
		if updated.Status == models.BookingCanceled {
			return ErrAlreadyCanceled
		}
		if updated.Status != models.BookingActive || updated.EndTime.Before(now) {
			return ErrExpired
		}

		updated.EndTime = updated.EndTime.Add(time.Duration(additionalHours) * time.Hour)
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		payment := models.Payment{
			BookingID: updated.ID,
			UserID:    userID,
			Amount:    amount,
			Status:    models.PaymentCompleted,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Locker{}).Where("id = ?", updated.LockerID).
			Update("status", models.LockerOccupied).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Cancel cancels the booking and refunds according to how far away the
// start time is: full refund beyond 24 hours, half between 12 and 24,
// nothing inside 12. The refund is written as a negative payment and the
// locker is freed when the booking window has not yet elapsed. Returns the
// refund amount.
func (m *Manager) Cancel(ctx context.Context, bookingID, userID uint) (float64, *models.Booking, error) {
	now := time.Now()
	var refund float64
	var canceled models.Booking
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&canceled, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if canceled.UserID != userID {
			return ErrForbidden
		}
		if canceled.Status == models.BookingCanceled {
			return ErrAlreadyCanceled
		}

		var totalPaid float64
		err := tx.Model(&models.Payment{}).
			Where("booking_id = ? AND status = ?", canceled.ID, models.PaymentCompleted).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&totalPaid).Error
		if err != nil {
			return err
		}
		refund = refundAmount(totalPaid, canceled.StartTime.Sub(now).Hours())

		canceled.Status = models.BookingCanceled
		if err := tx.Save(&canceled).Error; err != nil {
			return err
		}
		if refund > 0 {
			payment := models.Payment{
				BookingID: canceled.ID,
				UserID:    userID,
				Amount:    -refund,
				Status:    models.PaymentCompleted,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		}
		if canceled.EndTime.After(now) {
			return tx.Model(&models.Locker{}).Where("id = ?", canceled.LockerID).
				Update("status", models.LockerAvailable).Error
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return refund, &canceled, nil
}

// SweepExpired transitions every ACTIVE booking whose window has elapsed to
// EXPIRED and frees its locker, unless another active booking still covers
// it. Each booking is handled in its own transaction so one failure does
// not hold up the rest. Returns the number of bookings swept. The sweep is
// idempotent.
func (m *Manager) SweepExpired(ctx context.Context) (int, error) {
	now := time.Now()
	var stale []models.Booking
	err := m.db.WithContext(ctx).
		Where("status = ? AND end_time < ?", models.BookingActive, now).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range stale {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var b models.Booking
			if err := lockForUpdate(tx).First(&b, stale[i].ID).Error; err != nil {
				return err
			}
			if b.Status != models.BookingActive {
				return nil // already handled by a concurrent request
			}
			if err := b.UpdateStatus(tx, models.BookingExpired); err != nil {
				return err
			}
			var locker models.Locker
			if err := lockForUpdate(tx).First(&locker, b.LockerID).Error; err != nil {
				return err
			}
			return sweepLockerTx(tx, &locker, now)
		})
		if err != nil {
			return swept, err
		}
		swept++
	}
	return swept, nil
}
