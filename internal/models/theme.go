package models

import "time"

// Theme is a lesson topic authored by a teacher for a group, distinct from a
// live stream.
type Theme struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	Group     string          `gorm:"size:100;not null;index" json:"group"`
	Teacher   TeacherSnapshot `gorm:"embedded;embeddedPrefix:teacher_" json:"teacher"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ThemeFeedback is one feedback document per submission. Unlike stream
// ratings there is no duplicate suppression here; the asymmetry is inherited
// from the source system and preserved.
type ThemeFeedback struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	ThemeID uint            `gorm:"not null;index" json:"theme_id"`
	Title   string          `gorm:"size:255" json:"theme_title"`
	Group   string          `gorm:"size:100;index" json:"group"`
	Teacher TeacherSnapshot `gorm:"embedded;embeddedPrefix:teacher_" json:"teacher"`
	Student StudentSnapshot `gorm:"embedded;embeddedPrefix:student_" json:"student"`

	Rating       int       `json:"rating"`
	Feedback     string    `gorm:"type:text" json:"feedback,omitempty"`
	VoiceMessage string    `gorm:"size:500" json:"voiceMessage,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TeacherFeedbackItem is one entry of the merged stream/theme feed returned
// for a teacher. IsStream discriminates the payload.
type TeacherFeedbackItem struct {
	IsStream bool        `json:"isStream"`
	Item     interface{} `json:"item"`
}
