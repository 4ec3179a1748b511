package models

import "time"

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:varchar(128);not null"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(150)"`
	LastName     string    `json:"last_name" gorm:"type:varchar(150)"`
	// No column default: a default makes GORM omit the zero value on
	// insert, which would silently turn deactivated accounts active.
	IsActive bool `json:"-" gorm:"not null"`
	DateJoined   time.Time `json:"date_joined" gorm:"autoCreateTime"`
}
