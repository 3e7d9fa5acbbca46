package booking

import (
	"time"

	"spot-service/internal/model"
)

// Ledger owns the lifecycle of bookings. All mutations run their conflict
// check and write inside the store's per-spot lock, so for any one spot at
// most one of two overlapping requests can win.
type Ledger struct {
	store Store
}

// NewLedger creates a ledger backed by the given store
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// CheckAvailability reports whether [start,end) is free on the spot. It is a
// pure read; excludeID (0 for none) skips a booking being edited in place.
func (l *Ledger) CheckAvailability(spotID uint, start, end time.Time, excludeID uint) (CheckResult, error) {
	if !Day(start).Before(Day(end)) {
		return CheckResult{}, ErrInvalidRange
	}
	if _, err := l.store.GetSpot(spotID); err != nil {
		return CheckResult{}, err
	}
	existing, err := l.store.BookingsForSpot(spotID)
	if err != nil {
		return CheckResult{}, err
	}
	return CheckRange(existing, start, end, excludeID)
}

// Create books [start,end) on the spot for the user. Owners cannot book
// their own spot.
func (l *Ledger) Create(spotID, userID uint, start, end time.Time) (*model.Booking, error) {
	start, end = Day(start), Day(end)
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}

	spot, err := l.store.GetSpot(spotID)
	if err != nil {
		return nil, err
	}
	if spot.OwnerID == userID {
		return nil, ErrForbidden
	}

	b := &model.Booking{SpotID: spotID, UserID: userID, StartDate: start, EndDate: end}
	err = l.store.WithSpotLock(spotID, func(tx Store) error {
		existing, err := tx.BookingsForSpot(spotID)
		if err != nil {
			return err
		}
		result, err := CheckRange(existing, start, end, 0)
		if err != nil {
			return err
		}
		if !result.Available {
			return &ConflictError{BookingIDs: result.Conflicts}
		}
		return tx.InsertBooking(b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Update moves an existing booking to [start,end). Only the booking's own
// user may edit it; the conflict check excludes the booking itself.
func (l *Ledger) Update(bookingID, requesterID uint, start, end time.Time) (*model.Booking, error) {
	start, end = Day(start), Day(end)
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}

	b, err := l.store.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != requesterID {
		return nil, ErrForbidden
	}

	err = l.store.WithSpotLock(b.SpotID, func(tx Store) error {
		existing, err := tx.BookingsForSpot(b.SpotID)
		if err != nil {
			return err
		}
		result, err := CheckRange(existing, start, end, b.ID)
		if err != nil {
			return err
		}
		if !result.Available {
			return &ConflictError{BookingIDs: result.Conflicts}
		}
		b.StartDate = start
		b.EndDate = end
		return tx.SaveBooking(b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel removes a booking permanently. Allowed for the booking's user and
// for the spot's owner.
func (l *Ledger) Cancel(bookingID, requesterID uint) error {
	b, err := l.store.GetBooking(bookingID)
	if err != nil {
		return err
	}
	if b.UserID != requesterID {
		spot, err := l.store.GetSpot(b.SpotID)
		if err != nil {
			return err
		}
		if spot.OwnerID != requesterID {
			return ErrForbidden
		}
	}
	return l.store.DeleteBooking(bookingID)
}
