package repository

import (
	"context"

	"github.com/Shukurulla/stream-service/internal/models"

	"gorm.io/gorm"
)

// StudentRepository defines the interface for student data operations
type StudentRepository interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	GetStudentByID(ctx context.Context, id uint) (*models.Student, error)
	GetStudentByPhone(ctx context.Context, phone string) (*models.Student, error)
	GetStudentsByGroup(ctx context.Context, group string) ([]*models.Student, error)
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student) error
}

// studentRepository implements StudentRepository
type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetStudentByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).First(&student, id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) GetStudentByPhone(ctx context.Context, phone string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) GetStudentsByGroup(ctx context.Context, group string) ([]*models.Student, error) {
	var students []*models.Student
	err := r.db.WithContext(ctx).Where("\"group\" = ?", group).Order("name ASC").Find(&students).Error
	return students, err
}

func (r *studentRepository) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	var students []*models.Student
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&students).Error
	return students, err
}

func (r *studentRepository) UpdateStudent(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}
