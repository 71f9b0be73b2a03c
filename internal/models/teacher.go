// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Teacher represents a teacher account.
//
// OriginalPassword keeps the plaintext credential next to the bcrypt hash.
// This mirrors the upstream data model the mobile clients depend on; it is a
// known weak point and is never returned in API responses.
type Teacher struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:255;not null;index" json:"name"`
	Password         string         `gorm:"size:255;not null" json:"-"`
	OriginalPassword string         `gorm:"size:255" json:"-"`
	Science          string         `gorm:"size:100;not null" json:"science"`
	ProfileImage     string         `gorm:"size:500" json:"profileImage"`
	Rating           datatypes.JSON `json:"rating,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TeacherSnapshot is an immutable copy of a teacher's display fields taken at
// write time and embedded into referencing records. It is never synchronized
// with later edits of the Teacher row.
type TeacherSnapshot struct {
	ID           uint   `json:"id"`
	Name         string `gorm:"size:255" json:"name"`
	Science      string `gorm:"size:100" json:"science"`
	ProfileImage string `gorm:"size:500" json:"profileImage"`
}

// Snapshot returns the denormalized display fields for embedding.
func (t *Teacher) Snapshot() TeacherSnapshot {
	return TeacherSnapshot{
		ID:           t.ID,
		Name:         t.Name,
		Science:      t.Science,
		ProfileImage: t.ProfileImage,
	}
}
