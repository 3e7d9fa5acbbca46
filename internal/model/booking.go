package model

import "time"

// Booking represents a reserved date range for a spot.
// StartDate and EndDate are calendar dates stored without a time component;
// the range is half-open: the guest checks out on EndDate, so another
// booking may start that same day. Bookings are hard-deleted on cancel.
type Booking struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SpotID    uint      `json:"spot_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	StartDate time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate   time.Time `json:"end_date" gorm:"type:date;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
