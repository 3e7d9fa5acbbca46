package model

import "time"

// Spot represents a rentable property listing
type Spot struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	OwnerID     uint     `json:"owner_id" gorm:"index;not null"`
	Country     string   `json:"country" gorm:"type:varchar(100);not null"`
	Address     string   `json:"address" gorm:"type:varchar(255);not null"`
	City        string   `json:"city" gorm:"type:varchar(100);not null"`
	State       string   `json:"state" gorm:"type:varchar(100);not null"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Name        string   `json:"name" gorm:"type:varchar(100);not null"`
	Price       float64  `json:"price" gorm:"not null"`
	Description string   `json:"description" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations. Deleting a spot removes its images, bookings and reviews.
	Owner    *User       `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Images   []SpotImage `json:"images,omitempty" gorm:"foreignKey:SpotID;constraint:OnDelete:CASCADE"`
	Bookings []Booking   `json:"-" gorm:"foreignKey:SpotID;constraint:OnDelete:CASCADE"`
	Reviews  []Review    `json:"-" gorm:"foreignKey:SpotID;constraint:OnDelete:CASCADE"`
}

// SpotImage is an image attached to a spot listing
type SpotImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SpotID    uint      `json:"spot_id" gorm:"index;not null"`
	URL       string    `json:"url" gorm:"type:varchar(500);not null"`
	Preview   bool      `json:"preview" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
