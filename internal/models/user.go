package models

import "time"

type User struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Login     string    `gorm:"unique;not null" json:"login"`
	Password  string    `gorm:"not null" json:"-"`
	RoleID    int       `gorm:"not null" json:"roleId"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
