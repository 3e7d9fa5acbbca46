package model

import "time"

// Review is a user's review of a spot. A user may leave at most one review
// per spot, enforced by the composite unique index. Reviews are hard-deleted
// so a user can review again after removing an earlier review.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SpotID    uint      `json:"spot_id" gorm:"not null;uniqueIndex:idx_review_spot_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_review_spot_user"`
	Stars     int       `json:"stars" gorm:"not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User   *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Images []ReviewImage `json:"images,omitempty" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

// ReviewImage is an image attached to a review
type ReviewImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ReviewID  uint      `json:"review_id" gorm:"index;not null"`
	URL       string    `json:"url" gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `json:"created_at"`
}
