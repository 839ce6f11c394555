package models

type Address struct {
	ID     int     `gorm:"primaryKey" json:"id"`
	City   string  `gorm:"not null" json:"city"`
	Street string  `gorm:"not null" json:"street"`
	House  string  `json:"house"`
	Places []Place `json:"-"`
}
