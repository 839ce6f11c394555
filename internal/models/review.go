package models

import "time"

// PlaceReview holds at most one row per (place, user) pair. Posting again
// overwrites rating, comment and timestamp.
type PlaceReview struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	PlaceID   int       `gorm:"not null;uniqueIndex:idx_review_place_user" json:"placeId"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_review_place_user" json:"userId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	User      User      `json:"-"`
}
