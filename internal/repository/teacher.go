// Package repository provides data access layers for persistent entities.
package repository

import (
	"context"

	"github.com/Shukurulla/stream-service/internal/models"

	"gorm.io/gorm"
)

// TeacherRepository defines the interface for teacher data operations
type TeacherRepository interface {
	CreateTeacher(ctx context.Context, teacher *models.Teacher) error
	GetTeacherByID(ctx context.Context, id uint) (*models.Teacher, error)
	GetTeacherByName(ctx context.Context, name string) (*models.Teacher, error)
	GetAllTeachers(ctx context.Context) ([]*models.Teacher, error)
	UpdateTeacher(ctx context.Context, teacher *models.Teacher) error
}

// teacherRepository implements TeacherRepository
type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) CreateTeacher(ctx context.Context, teacher *models.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *teacherRepository) GetTeacherByID(ctx context.Context, id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).First(&teacher, id).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepository) GetTeacherByName(ctx context.Context, name string) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepository) GetAllTeachers(ctx context.Context) ([]*models.Teacher, error) {
	var teachers []*models.Teacher
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&teachers).Error
	return teachers, err
}

func (r *teacherRepository) UpdateTeacher(ctx context.Context, teacher *models.Teacher) error {
	return r.db.WithContext(ctx).Save(teacher).Error
}
