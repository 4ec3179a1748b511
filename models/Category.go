package models

import "time"

type Category struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description     string          `json:"description" gorm:"type:text"`
	Color           string          `json:"color" gorm:"type:varchar(7);not null;default:#007bff"`
	Icon            string          `json:"icon" gorm:"type:varchar(50)"`
	TransactionType TransactionType `json:"transaction_type" gorm:"type:varchar(20);not null;default:expense"`
	IsActive        bool            `json:"is_active" gorm:"not null"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
