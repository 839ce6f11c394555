package models

// Status is a plain lookup value. There is no transition graph: an update
// may move an application to any status id that exists in this table.
type Status struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}
