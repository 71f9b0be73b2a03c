package models

import "time"

// PlannedLesson is a short-lived agenda entry. A background sweeper removes
// entries once their scheduled time is more than ten minutes in the past.
type PlannedLesson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Theme     string    `gorm:"size:255;not null" json:"theme"`
	Group     string    `gorm:"size:100;not null" json:"group"`
	DateTime  time.Time `gorm:"not null;index" json:"dateTime"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
