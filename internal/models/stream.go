package models

import (
	"time"

	"gorm.io/datatypes"
)

// Stream represents a scheduled or live class session. The external video
// provider owns the actual broadcast; IsStart/IsEnded are a reactive cache of
// the provider's state, updated by the owner or by webhook events.
type Stream struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	PlanStream  time.Time `json:"planStream"`
	ClassRoom   string    `gorm:"size:100;not null" json:"classRoom"`
	Group       string    `gorm:"size:100;not null;index" json:"group"`
	Science     string    `gorm:"size:100" json:"science"`

	Teacher TeacherSnapshot `gorm:"embedded;embeddedPrefix:teacher_" json:"teacher"`

	IsStart   bool   `gorm:"default:false;index" json:"isStart"`
	IsEnded   bool   `gorm:"default:false;index" json:"isEnded"`
	EndedTime string `gorm:"size:64" json:"endedTime,omitempty"`

	// LiveStreamID is the provider-issued identifier; webhook events address
	// streams through it, not through the local primary key.
	LiveStreamID string         `gorm:"size:100;index" json:"streamId"`
	StreamInfo   datatypes.JSON `json:"streamInfo,omitempty"`

	// TotalRating always equals the arithmetic mean of Ratings[].Rate as of
	// the most recent successful submission. It is recomputed by full rescan,
	// never maintained incrementally.
	TotalRating float64 `gorm:"default:0" json:"totalRating"`

	Ratings  []StreamRating  `gorm:"foreignKey:StreamID" json:"ratings,omitempty"`
	Comments []StreamComment `gorm:"foreignKey:StreamID" json:"comments,omitempty"`
	Viewers  []StreamViewer  `gorm:"foreignKey:StreamID" json:"viewers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StreamRating is a single 1..5 evaluation of a stream. One rating per rater
// per stream, enforced by scanning the existing entries before insert.
type StreamRating struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	StreamID uint `gorm:"not null;index" json:"stream_id"`

	Rater TeacherSnapshot `gorm:"embedded;embeddedPrefix:rater_" json:"teacher"`

	Rate      int       `gorm:"not null" json:"rate"`
	Feedback  string    `gorm:"type:text" json:"feedback,omitempty"`
	VoiceNote string    `gorm:"size:500" json:"voiceNote,omitempty"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"date"`
}

// StreamComment is a free-text comment on a stream.
type StreamComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StreamID  uint      `gorm:"not null;index" json:"stream_id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `gorm:"size:255" json:"user_name"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"date"`
}

// StreamViewer records that a student joined a stream. Deduplicated by viewer
// identity: the unique index backs up the application-level existence check.
type StreamViewer struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	StreamID     uint      `gorm:"not null;uniqueIndex:idx_stream_viewer" json:"-"`
	ViewerID     uint      `gorm:"not null;uniqueIndex:idx_stream_viewer" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	ProfileImage string    `gorm:"size:500" json:"profileImage"`
	Science      string    `gorm:"size:100" json:"science"`
	CreatedAt    time.Time `json:"joined_at"`
}

// StreamDay groups ended streams under one calendar date for the
// /streams/previous listing.
type StreamDay struct {
	Date    string   `json:"date"`
	Streams []Stream `json:"streams"`
}
