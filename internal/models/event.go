package models

type EventType struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

type Event struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	EventTypeID int       `gorm:"not null" json:"eventTypeId"`
	EventType   EventType `json:"eventType"`
}
