package models

import "time"

type Application struct {
	ID             int        `gorm:"primaryKey" json:"id"`
	StatusID       int        `gorm:"not null" json:"statusId"`
	PlaceID        int        `gorm:"not null" json:"placeId"`
	EventID        int        `gorm:"not null" json:"eventId"`
	UserID         int        `gorm:"not null" json:"userId"`
	ContactPhone   string     `json:"contactPhone"`
	GuestCount     *int       `json:"guestCount"`
	EventDate      *time.Time `json:"eventDate"`
	EventTime      string     `json:"eventTime"`
	Duration       *int       `json:"duration"`
	AdditionalInfo string     `json:"additionalInfo"`
	DateCreate     time.Time  `json:"dateCreate"`
	DateUpdate     time.Time  `json:"dateUpdate"`
	Status         Status     `json:"status"`
	Place          Place      `json:"place"`
	Event          Event      `json:"event"`
	User           User       `json:"user"`
	Services       []Service  `gorm:"many2many:services_applications;" json:"services"`
}
