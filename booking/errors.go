package booking

import "errors"

// Sentinel errors returned by the lifecycle manager. Controllers map these
// onto HTTP statuses.
var (
	ErrNotFound        = errors.New("booking or locker not found")
	ErrForbidden       = errors.New("not the owner of this booking")
	ErrNotAvailable    = errors.New("locker is not available for this time period")
	ErrInvalidWindow   = errors.New("invalid booking window")
	ErrInvalidInput    = errors.New("duration must be between 1 and 24 hours")
	ErrExpired         = errors.New("booking has expired")
	ErrAlreadyCanceled = errors.New("booking is already canceled")
)
