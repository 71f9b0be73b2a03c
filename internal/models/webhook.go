package models

import (
	"time"

	"gorm.io/datatypes"
)

// Webhook event types sent by the video provider.
const (
	WebhookBroadcastStarted = "live-stream.broadcast.started"
	WebhookBroadcastEnded   = "live-stream.broadcast.ended"
)

// WebhookEvent is an append-only archive row for every inbound provider
// webhook. Events are archived before any state transition is attempted, so
// the archive survives transition failures.
type WebhookEvent struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Type         string         `gorm:"size:100;not null;index" json:"type"`
	LiveStreamID string         `gorm:"size:100;index" json:"liveStreamId"`
	Payload      datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	CreatedAt    time.Time      `json:"created_at"`
}
