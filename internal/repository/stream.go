package repository

import (
	"context"
	"time"

	"github.com/Shukurulla/stream-service/internal/models"

	"gorm.io/gorm"
)

// StreamRepository defines the interface for stream data operations
type StreamRepository interface {
	CreateStream(ctx context.Context, stream *models.Stream) error
	GetStreamByID(ctx context.Context, id uint) (*models.Stream, error)
	GetStreamByLiveStreamID(ctx context.Context, liveStreamID string) (*models.Stream, error)
	GetLiveStreams(ctx context.Context) ([]*models.Stream, error)
	GetUpcomingStreams(ctx context.Context) ([]*models.Stream, error)
	GetEndedStreams(ctx context.Context) ([]*models.Stream, error)
	GetStreamsByTeacher(ctx context.Context, teacherID uint) ([]*models.Stream, error)
	UpdateStream(ctx context.Context, stream *models.Stream) error
	// Ratings
	CreateRating(ctx context.Context, rating *models.StreamRating) error
	GetRatingsByStream(ctx context.Context, streamID uint) ([]*models.StreamRating, error)
	GetRatingsByRater(ctx context.Context, raterID uint) ([]*models.StreamRating, error)
	MarkRatingsRead(ctx context.Context, streamID uint) error
	// Viewers
	CreateViewer(ctx context.Context, viewer *models.StreamViewer) error
	ViewerExists(ctx context.Context, streamID, viewerID uint) (bool, error)
	// Comments
	CreateComment(ctx context.Context, comment *models.StreamComment) error
}

// streamRepository implements StreamRepository
type streamRepository struct {
	db *gorm.DB
}

// NewStreamRepository creates a new stream repository
func NewStreamRepository(db *gorm.DB) StreamRepository {
	return &streamRepository{db: db}
}

func (r *streamRepository) CreateStream(ctx context.Context, stream *models.Stream) error {
	return r.db.WithContext(ctx).Create(stream).Error
}

func (r *streamRepository) GetStreamByID(ctx context.Context, id uint) (*models.Stream, error) {
	var stream models.Stream
	err := r.db.WithContext(ctx).
		Preload("Ratings").
		Preload("Comments").
		Preload("Viewers").
		First(&stream, id).Error
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (r *streamRepository) GetStreamByLiveStreamID(ctx context.Context, liveStreamID string) (*models.Stream, error) {
	var stream models.Stream
	err := r.db.WithContext(ctx).
		Where("live_stream_id = ?", liveStreamID).
		First(&stream).Error
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (r *streamRepository) GetLiveStreams(ctx context.Context) ([]*models.Stream, error) {
	var streams []*models.Stream
	err := r.db.WithContext(ctx).
		Where("is_start = ? AND is_ended = ?", true, false).
		Preload("Viewers").
		Order("plan_stream ASC").
		Find(&streams).Error
	return streams, err
}

func (r *streamRepository) GetUpcomingStreams(ctx context.Context) ([]*models.Stream, error) {
	var streams []*models.Stream
	err := r.db.WithContext(ctx).
		Where("is_start = ? AND is_ended = ? AND plan_stream > ?", false, false, time.Now()).
		Order("plan_stream ASC").
		Find(&streams).Error
	return streams, err
}

func (r *streamRepository) GetEndedStreams(ctx context.Context) ([]*models.Stream, error) {
	var streams []*models.Stream
	err := r.db.WithContext(ctx).
		Where("is_ended = ?", true).
		Preload("Ratings").
		Order("plan_stream ASC").
		Find(&streams).Error
	return streams, err
}

func (r *streamRepository) GetStreamsByTeacher(ctx context.Context, teacherID uint) ([]*models.Stream, error) {
	var streams []*models.Stream
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Preload("Ratings").
		Order("plan_stream DESC").
		Find(&streams).Error
	return streams, err
}

func (r *streamRepository) UpdateStream(ctx context.Context, stream *models.Stream) error {
	return r.db.WithContext(ctx).Save(stream).Error
}

func (r *streamRepository) CreateRating(ctx context.Context, rating *models.StreamRating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *streamRepository) GetRatingsByStream(ctx context.Context, streamID uint) ([]*models.StreamRating, error) {
	var ratings []*models.StreamRating
	err := r.db.WithContext(ctx).
		Where("stream_id = ?", streamID).
		Order("created_at ASC").
		Find(&ratings).Error
	return ratings, err
}

func (r *streamRepository) GetRatingsByRater(ctx context.Context, raterID uint) ([]*models.StreamRating, error) {
	var ratings []*models.StreamRating
	err := r.db.WithContext(ctx).
		Where("rater_id = ?", raterID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

func (r *streamRepository) MarkRatingsRead(ctx context.Context, streamID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.StreamRating{}).
		Where("stream_id = ?", streamID).
		Update("read", true).Error
}

func (r *streamRepository) CreateViewer(ctx context.Context, viewer *models.StreamViewer) error {
	return r.db.WithContext(ctx).Create(viewer).Error
}

func (r *streamRepository) ViewerExists(ctx context.Context, streamID, viewerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StreamViewer{}).
		Where("stream_id = ? AND viewer_id = ?", streamID, viewerID).
		Count(&count).Error
	return count > 0, err
}

func (r *streamRepository) CreateComment(ctx context.Context, comment *models.StreamComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}
