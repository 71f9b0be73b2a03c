package repository

import (
	"context"

	"github.com/Shukurulla/stream-service/internal/models"

	"gorm.io/gorm"
)

// ThemeRepository defines the interface for theme data operations
type ThemeRepository interface {
	CreateTheme(ctx context.Context, theme *models.Theme) error
	GetThemeByID(ctx context.Context, id uint) (*models.Theme, error)
	GetAllThemes(ctx context.Context) ([]*models.Theme, error)
	GetThemesByTeacher(ctx context.Context, teacherID uint) ([]*models.Theme, error)
	UpdateTheme(ctx context.Context, theme *models.Theme) error
	DeleteTheme(ctx context.Context, id uint) error
}

// themeRepository implements ThemeRepository
type themeRepository struct {
	db *gorm.DB
}

// NewThemeRepository creates a new theme repository
func NewThemeRepository(db *gorm.DB) ThemeRepository {
	return &themeRepository{db: db}
}

func (r *themeRepository) CreateTheme(ctx context.Context, theme *models.Theme) error {
	return r.db.WithContext(ctx).Create(theme).Error
}

func (r *themeRepository) GetThemeByID(ctx context.Context, id uint) (*models.Theme, error) {
	var theme models.Theme
	err := r.db.WithContext(ctx).First(&theme, id).Error
	if err != nil {
		return nil, err
	}
	return &theme, nil
}

func (r *themeRepository) GetAllThemes(ctx context.Context) ([]*models.Theme, error) {
	var themes []*models.Theme
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&themes).Error
	return themes, err
}

func (r *themeRepository) GetThemesByTeacher(ctx context.Context, teacherID uint) ([]*models.Theme, error) {
	var themes []*models.Theme
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&themes).Error
	return themes, err
}

func (r *themeRepository) UpdateTheme(ctx context.Context, theme *models.Theme) error {
	return r.db.WithContext(ctx).Save(theme).Error
}

func (r *themeRepository) DeleteTheme(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Theme{}, id).Error
}

// ThemeFeedbackRepository defines the interface for theme feedback data operations
type ThemeFeedbackRepository interface {
	CreateFeedback(ctx context.Context, feedback *models.ThemeFeedback) error
	GetFeedbackByID(ctx context.Context, id uint) (*models.ThemeFeedback, error)
	GetAllFeedbacks(ctx context.Context) ([]*models.ThemeFeedback, error)
	GetFeedbacksByTheme(ctx context.Context, themeID uint) ([]*models.ThemeFeedback, error)
	GetFeedbacksByTeacher(ctx context.Context, teacherID uint) ([]*models.ThemeFeedback, error)
	GetFeedbacksByStudent(ctx context.Context, studentID uint) ([]*models.ThemeFeedback, error)
	UpdateFeedback(ctx context.Context, feedback *models.ThemeFeedback) error
	DeleteFeedback(ctx context.Context, id uint) error
}

// themeFeedbackRepository implements ThemeFeedbackRepository
type themeFeedbackRepository struct {
	db *gorm.DB
}

// NewThemeFeedbackRepository creates a new theme feedback repository
func NewThemeFeedbackRepository(db *gorm.DB) ThemeFeedbackRepository {
	return &themeFeedbackRepository{db: db}
}

func (r *themeFeedbackRepository) CreateFeedback(ctx context.Context, feedback *models.ThemeFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *themeFeedbackRepository) GetFeedbackByID(ctx context.Context, id uint) (*models.ThemeFeedback, error) {
	var feedback models.ThemeFeedback
	err := r.db.WithContext(ctx).First(&feedback, id).Error
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *themeFeedbackRepository) GetAllFeedbacks(ctx context.Context) ([]*models.ThemeFeedback, error) {
	var feedbacks []*models.ThemeFeedback
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&feedbacks).Error
	return feedbacks, err
}

func (r *themeFeedbackRepository) GetFeedbacksByTheme(ctx context.Context, themeID uint) ([]*models.ThemeFeedback, error) {
	var feedbacks []*models.ThemeFeedback
	err := r.db.WithContext(ctx).
		Where("theme_id = ?", themeID).
		Order("created_at DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}

func (r *themeFeedbackRepository) GetFeedbacksByTeacher(ctx context.Context, teacherID uint) ([]*models.ThemeFeedback, error) {
	var feedbacks []*models.ThemeFeedback
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}

func (r *themeFeedbackRepository) GetFeedbacksByStudent(ctx context.Context, studentID uint) ([]*models.ThemeFeedback, error) {
	var feedbacks []*models.ThemeFeedback
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}

func (r *themeFeedbackRepository) UpdateFeedback(ctx context.Context, feedback *models.ThemeFeedback) error {
	return r.db.WithContext(ctx).Save(feedback).Error
}

func (r *themeFeedbackRepository) DeleteFeedback(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ThemeFeedback{}, id).Error
}
