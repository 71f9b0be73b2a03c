package repository

import (
	"context"
	"time"

	"github.com/Shukurulla/stream-service/internal/models"

	"gorm.io/gorm"
)

// PlannedLessonRepository defines the interface for planned lesson operations
type PlannedLessonRepository interface {
	CreatePlannedLesson(ctx context.Context, lesson *models.PlannedLesson) error
	GetAllPlannedLessons(ctx context.Context) ([]*models.PlannedLesson, error)
	DeletePlannedLesson(ctx context.Context, id uint) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// plannedLessonRepository implements PlannedLessonRepository
type plannedLessonRepository struct {
	db *gorm.DB
}

// NewPlannedLessonRepository creates a new planned lesson repository
func NewPlannedLessonRepository(db *gorm.DB) PlannedLessonRepository {
	return &plannedLessonRepository{db: db}
}

func (r *plannedLessonRepository) CreatePlannedLesson(ctx context.Context, lesson *models.PlannedLesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *plannedLessonRepository) GetAllPlannedLessons(ctx context.Context) ([]*models.PlannedLesson, error) {
	var lessons []*models.PlannedLesson
	err := r.db.WithContext(ctx).Order("date_time ASC").Find(&lessons).Error
	return lessons, err
}

func (r *plannedLessonRepository) DeletePlannedLesson(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PlannedLesson{}, id).Error
}

// DeleteOlderThan removes lessons whose scheduled time is before cutoff and
// returns the number of rows deleted.
func (r *plannedLessonRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("date_time < ?", cutoff).
		Delete(&models.PlannedLesson{})
	return res.RowsAffected, res.Error
}
