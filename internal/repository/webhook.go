package repository

import (
	"context"

	"github.com/Shukurulla/stream-service/internal/models"

	"gorm.io/gorm"
)

// WebhookRepository archives inbound provider webhook events.
type WebhookRepository interface {
	CreateEvent(ctx context.Context, event *models.WebhookEvent) error
	GetEventsByLiveStreamID(ctx context.Context, liveStreamID string) ([]*models.WebhookEvent, error)
}

// webhookRepository implements WebhookRepository
type webhookRepository struct {
	db *gorm.DB
}

// NewWebhookRepository creates a new webhook repository
func NewWebhookRepository(db *gorm.DB) WebhookRepository {
	return &webhookRepository{db: db}
}

func (r *webhookRepository) CreateEvent(ctx context.Context, event *models.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *webhookRepository) GetEventsByLiveStreamID(ctx context.Context, liveStreamID string) ([]*models.WebhookEvent, error) {
	var events []*models.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("live_stream_id = ?", liveStreamID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
