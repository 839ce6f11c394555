package models

import "time"

type UserFavorite struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_favorite_user_place" json:"userId"`
	PlaceID   int       `gorm:"not null;uniqueIndex:idx_favorite_user_place" json:"placeId"`
	AddedDate time.Time `json:"addedDate"`
	Place     Place     `json:"-"`
}

// UserViewHistory keeps one row per (user, place); a repeat view bumps
// ViewedAt instead of inserting a duplicate.
type UserViewHistory struct {
	ID       int       `gorm:"primaryKey" json:"id"`
	UserID   int       `gorm:"not null;uniqueIndex:idx_history_user_place" json:"userId"`
	PlaceID  int       `gorm:"not null;uniqueIndex:idx_history_user_place" json:"placeId"`
	ViewedAt time.Time `json:"viewedAt"`
	Place    Place     `json:"-"`
}
