package booking

import "spot-service/internal/model"

// Store is the persistence boundary of the ledger. Implementations must
// return ErrNotFound for missing records.
//
// WithSpotLock serializes the callback against every other WithSpotLock call
// for the same spot; callbacks for different spots may run concurrently. The
// ledger runs its conflict-check-then-insert sequence inside it, which is
// what keeps two overlapping requests from both succeeding.
type Store interface {
	GetSpot(id uint) (*model.Spot, error)
	GetBooking(id uint) (*model.Booking, error)
	BookingsForSpot(spotID uint) ([]model.Booking, error)
	InsertBooking(b *model.Booking) error
	SaveBooking(b *model.Booking) error
	DeleteBooking(id uint) error
	WithSpotLock(spotID uint, fn func(tx Store) error) error
}
