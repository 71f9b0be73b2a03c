package models

import "time"

// Percent is a coarse per-student progress value for one science.
type Percent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"studentId"`
	Science   string    `gorm:"size:100;not null;index" json:"science"`
	Percent   int       `gorm:"not null" json:"percent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Score records a student's result for one topic of a lesson. There is at
// most one row per (student, lesson, topic); submitting again overwrites the
// stored score.
type Score struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	StudentID uint `gorm:"not null;uniqueIndex:idx_score_slt" json:"studentId"`
	// The snapshot's own columns carry a distinct prefix so its ID does not
	// shadow the student_id foreign key column.
	Student StudentSnapshot `gorm:"embedded;embeddedPrefix:student_info_" json:"student"`
	Lesson    string          `gorm:"size:50;not null;uniqueIndex:idx_score_slt" json:"lesson"`
	Topic     int             `gorm:"not null;uniqueIndex:idx_score_slt" json:"topic"`
	Score     int             `gorm:"not null" json:"score"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LessonProgress is the read-side view of a student's standing in one lesson.
type LessonProgress struct {
	Lesson      string `json:"lesson"`
	Completed   int    `json:"completed"`
	TotalTopics int    `json:"totalTopics"`
	Percentage  int    `json:"percentage"`
}

// StudentProgress aggregates a student's per-lesson progress.
type StudentProgress struct {
	Student StudentSnapshot  `json:"student"`
	Lessons []LessonProgress `json:"lessons"`
}

// LeaderboardEntry ranks a student by total topics completed across lessons.
type LeaderboardEntry struct {
	Student   StudentSnapshot `json:"student"`
	Completed int             `json:"completed"`
}
