package models

import "time"

// NotificationStream is the snapshot of the stream a feedback event refers to.
type NotificationStream struct {
	StreamID uint   `json:"streamId"`
	Title    string `gorm:"size:255" json:"title"`
}

// Notification is a denormalized, student-addressed record of a feedback
// event. Creation copies display fields from the stream, teacher and student;
// the copies are never corrected if the source records change later, and the
// originating rating is never mutated through a notification.
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Stream NotificationStream `gorm:"embedded;embeddedPrefix:stream_" json:"stream"`
	From   TeacherSnapshot    `gorm:"embedded;embeddedPrefix:from_" json:"from"`
	// The snapshot's own columns carry a distinct prefix so its ID does not
	// shadow the student_id foreign key column.
	Student StudentSnapshot `gorm:"embedded;embeddedPrefix:student_info_" json:"student"`

	StudentID uint `gorm:"not null;index" json:"student_id"`

	Rate int `gorm:"not null" json:"rate"`
	// AverageRating captures the stream's mean rating at notification time.
	AverageRating float64   `json:"averageRating"`
	Feedback      string    `gorm:"type:text" json:"feedback,omitempty"`
	VoiceNote     string    `gorm:"size:500" json:"voiceNote,omitempty"`
	Read          bool      `gorm:"default:false;index" json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}
