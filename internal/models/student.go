package models

import "time"

// Student represents a student account. Group is a by-value reference to a
// Group name; the same dual-password pattern as Teacher applies.
type Student struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:255;not null;index" json:"name"`
	Password         string    `gorm:"size:255;not null" json:"-"`
	OriginalPassword string    `gorm:"size:255" json:"-"`
	Phone            string    `gorm:"size:32;uniqueIndex" json:"phone"`
	Group            string    `gorm:"size:100;not null;index" json:"group"`
	Kurs             string    `gorm:"size:20" json:"kurs"`
	ProfileImage     string    `gorm:"size:500" json:"profileImage"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StudentSnapshot is an immutable copy of a student's display fields embedded
// into referencing records at write time.
type StudentSnapshot struct {
	ID           uint   `json:"id"`
	Name         string `gorm:"size:255" json:"name"`
	Group        string `gorm:"size:100" json:"group"`
	ProfileImage string `gorm:"size:500" json:"profileImage"`
}

// Snapshot returns the denormalized display fields for embedding.
func (s *Student) Snapshot() StudentSnapshot {
	return StudentSnapshot{
		ID:           s.ID,
		Name:         s.Name,
		Group:        s.Group,
		ProfileImage: s.ProfileImage,
	}
}
