package booking

import (
	"errors"

	"spot-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of a gorm connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given gorm connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetSpot(id uint) (*model.Spot, error) {
	var spot model.Spot
	if err := s.db.First(&spot, id).Error; err != nil {
		return nil, translate(err)
	}
	return &spot, nil
}

func (s *GormStore) GetBooking(id uint) (*model.Booking, error) {
	var b model.Booking
	if err := s.db.First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *GormStore) BookingsForSpot(spotID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.db.Where("spot_id = ?", spotID).Order("start_date").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *GormStore) InsertBooking(b *model.Booking) error {
	return s.db.Create(b).Error
}

func (s *GormStore) SaveBooking(b *model.Booking) error {
	return s.db.Save(b).Error
}

func (s *GormStore) DeleteBooking(id uint) error {
	result := s.db.Delete(&model.Booking{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// WithSpotLock runs fn in a transaction holding a row lock on the spot.
// Concurrent bookings for the same spot queue on the SELECT ... FOR UPDATE,
// so the conflict check and the insert behave as one atomic step. Bookings
// on other spots take locks on other rows and are unaffected.
func (s *GormStore) WithSpotLock(spotID uint, fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var spot model.Spot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&spot, spotID).Error; err != nil {
			return translate(err)
		}
		return fn(&GormStore{db: tx})
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
