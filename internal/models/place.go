package models

type Place struct {
	ID              int              `gorm:"primaryKey" json:"id"`
	Name            string           `gorm:"not null" json:"name"`
	AddressID       int              `gorm:"not null" json:"addressId"`
	Address         Address          `json:"address"`
	Equipments      []Equipment      `gorm:"many2many:equipments_places;" json:"equipments"`
	Characteristics []Characteristic `gorm:"many2many:characteristics_places;" json:"characteristics"`
	Services        []Service        `gorm:"many2many:services_places;" json:"services"`
	Photos          []PlacePhoto     `json:"photos"`
	Applications    []Application    `json:"-"`
	Reviews         []PlaceReview    `json:"-"`
}
