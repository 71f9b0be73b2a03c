package models

import "time"

// GroupSnapshot is the by-value group reference embedded into shared files.
type GroupSnapshot struct {
	ID   uint   `json:"id"`
	Name string `gorm:"size:100" json:"name"`
}

// File is a document shared by a teacher with a group. The binary itself
// lives in the upload directory (or an external host, depending on
// deployment); FileURL points at it.
type File struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	FileURL     string          `gorm:"size:500;not null" json:"fileUrl"`
	From        TeacherSnapshot `gorm:"embedded;embeddedPrefix:from_" json:"from"`
	Group       GroupSnapshot   `gorm:"embedded;embeddedPrefix:group_" json:"group"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
