package booking

import (
	"math"
	"time"
)

// HourlyRate is the flat locker rental rate in currency units per hour.
const HourlyRate = 5.0

const (
	MinHours = 1
	MaxHours = 24
)

// Cost returns the charge for a whole number of rental hours. Durations
// outside [MinHours, MaxHours] are rejected, not clamped.
func Cost(hours int) (float64, error) {
	if hours < MinHours || hours > MaxHours {
		return 0, ErrInvalidInput
	}
	return float64(hours) * HourlyRate, nil
}

// durationHours converts a time window into billable hours, rounding partial
// hours up.
func durationHours(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours()))
}

// refundAmount applies the cancellation policy to the total paid on a
// booking: full refund more than 24h before start, half between 12 and 24h,
// nothing within 12h.
func refundAmount(totalPaid float64, hoursUntilStart float64) float64 {
	switch {
	case hoursUntilStart > 24:
		return totalPaid
	case hoursUntilStart > 12:
		return totalPaid * 0.5
	default:
		return 0
	}
}
