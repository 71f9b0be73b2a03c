package models

import "time"

// Group represents a student group. Other records reference groups by name
// rather than by foreign key; renaming a group does not update them.
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Kurs      string    `gorm:"size:20" json:"kurs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
