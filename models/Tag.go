package models

import "time"

// Tag is a per-account label. Name uniqueness is scoped to the owning
// user, unlike categories which are global.
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(50);not null;uniqueIndex:idx_tags_user_name,priority:2"`
	Color     string    `json:"color" gorm:"type:varchar(7);not null;default:#6c757d"`
	UserID    uint      `json:"-" gorm:"not null;uniqueIndex:idx_tags_user_name,priority:1"`
	CreatedAt time.Time `json:"created_at"`
}
