package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned when a booking's start date is not strictly
	// before its end date.
	ErrInvalidRange = errors.New("booking: start date must be before end date")

	// ErrNotFound is returned when a referenced spot or booking does not exist.
	ErrNotFound = errors.New("booking: record not found")

	// ErrForbidden is returned when the requester is not allowed to perform
	// the operation (booking their own spot, editing someone else's booking,
	// cancelling without ownership).
	ErrForbidden = errors.New("booking: operation not permitted")
)

// ConflictError is returned when a requested date range overlaps one or more
// existing bookings on the same spot. It carries every conflicting booking id.
type ConflictError struct {
	BookingIDs []uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking: date range conflicts with bookings %v", e.BookingIDs)
}
