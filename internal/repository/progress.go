package repository

import (
	"context"
	"errors"

	"github.com/Shukurulla/stream-service/internal/models"

	"gorm.io/gorm"
)

// PercentRepository defines the interface for percent record operations
type PercentRepository interface {
	CreatePercent(ctx context.Context, percent *models.Percent) error
	GetPercentByID(ctx context.Context, id uint) (*models.Percent, error)
	GetAllPercents(ctx context.Context) ([]*models.Percent, error)
	GetPercentsByScience(ctx context.Context, science string) ([]*models.Percent, error)
	GetPercentsByStudent(ctx context.Context, studentID uint) ([]*models.Percent, error)
	UpdatePercent(ctx context.Context, percent *models.Percent) error
	DeletePercent(ctx context.Context, id uint) error
}

// percentRepository implements PercentRepository
type percentRepository struct {
	db *gorm.DB
}

// NewPercentRepository creates a new percent repository
func NewPercentRepository(db *gorm.DB) PercentRepository {
	return &percentRepository{db: db}
}

func (r *percentRepository) CreatePercent(ctx context.Context, percent *models.Percent) error {
	return r.db.WithContext(ctx).Create(percent).Error
}

func (r *percentRepository) GetPercentByID(ctx context.Context, id uint) (*models.Percent, error) {
	var percent models.Percent
	err := r.db.WithContext(ctx).First(&percent, id).Error
	if err != nil {
		return nil, err
	}
	return &percent, nil
}

func (r *percentRepository) GetAllPercents(ctx context.Context) ([]*models.Percent, error) {
	var percents []*models.Percent
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&percents).Error
	return percents, err
}

func (r *percentRepository) GetPercentsByScience(ctx context.Context, science string) ([]*models.Percent, error) {
	var percents []*models.Percent
	err := r.db.WithContext(ctx).
		Where("science = ?", science).
		Order("created_at DESC").
		Find(&percents).Error
	return percents, err
}

func (r *percentRepository) GetPercentsByStudent(ctx context.Context, studentID uint) ([]*models.Percent, error) {
	var percents []*models.Percent
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&percents).Error
	return percents, err
}

func (r *percentRepository) UpdatePercent(ctx context.Context, percent *models.Percent) error {
	return r.db.WithContext(ctx).Save(percent).Error
}

func (r *percentRepository) DeletePercent(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Percent{}, id).Error
}

// ScoreRepository defines the interface for topic score operations
type ScoreRepository interface {
	UpsertScore(ctx context.Context, score *models.Score) (updated bool, err error)
	GetAllScores(ctx context.Context) ([]*models.Score, error)
	GetScoresByLesson(ctx context.Context, lesson string) ([]*models.Score, error)
	GetScoresByStudent(ctx context.Context, studentID uint) ([]*models.Score, error)
}

// scoreRepository implements ScoreRepository
type scoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

// UpsertScore creates the row or, if one exists for the same
// (student, lesson, topic), overwrites the stored score in place. Returns
// true when an existing row was updated.
func (r *scoreRepository) UpsertScore(ctx context.Context, score *models.Score) (bool, error) {
	var existing models.Score
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND lesson = ? AND topic = ?", score.StudentID, score.Lesson, score.Topic).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, r.db.WithContext(ctx).Create(score).Error
	}
	if err != nil {
		return false, err
	}
	existing.Score = score.Score
	existing.Student = score.Student
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return false, err
	}
	*score = existing
	return true, nil
}

func (r *scoreRepository) GetAllScores(ctx context.Context) ([]*models.Score, error) {
	var scores []*models.Score
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&scores).Error
	return scores, err
}

func (r *scoreRepository) GetScoresByLesson(ctx context.Context, lesson string) ([]*models.Score, error) {
	var scores []*models.Score
	err := r.db.WithContext(ctx).
		Where("lesson = ?", lesson).
		Order("created_at DESC").
		Find(&scores).Error
	return scores, err
}

func (r *scoreRepository) GetScoresByStudent(ctx context.Context, studentID uint) ([]*models.Score, error) {
	var scores []*models.Score
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&scores).Error
	return scores, err
}
