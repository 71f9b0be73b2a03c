package repository

import (
	"context"

	"github.com/Shukurulla/stream-service/internal/models"

	"gorm.io/gorm"
)

// FileRepository defines the interface for shared file metadata operations
type FileRepository interface {
	CreateFile(ctx context.Context, file *models.File) error
	GetFileByID(ctx context.Context, id uint) (*models.File, error)
	GetAllFiles(ctx context.Context) ([]*models.File, error)
	GetFilesByGroup(ctx context.Context, groupID uint) ([]*models.File, error)
}

// fileRepository implements FileRepository
type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) CreateFile(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepository) GetFileByID(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).First(&file, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) GetAllFiles(ctx context.Context) ([]*models.File, error) {
	var files []*models.File
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *fileRepository) GetFilesByGroup(ctx context.Context, groupID uint) ([]*models.File, error) {
	var files []*models.File
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}
