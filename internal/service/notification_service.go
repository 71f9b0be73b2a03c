package service

import (
	"context"
	"errors"

	"github.com/Shukurulla/stream-service/internal/cache"
	"github.com/Shukurulla/stream-service/internal/models"
	"github.com/Shukurulla/stream-service/internal/repository"

	"gorm.io/gorm"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
	streamRepo       repository.StreamRepository
	teacherRepo      repository.TeacherRepository
	studentRepo      repository.StudentRepository
}

type CreateNotificationInput struct {
	StreamID  uint   `json:"streamId"`
	TeacherID uint   `json:"teacherId"`
	StudentID uint   `json:"studentId"`
	Rate      int    `json:"rate"`
	Feedback  string `json:"feedback"`
	VoiceNote string `json:"voiceNote"`
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	streamRepo repository.StreamRepository,
	teacherRepo repository.TeacherRepository,
	studentRepo repository.StudentRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		streamRepo:       streamRepo,
		teacherRepo:      teacherRepo,
		studentRepo:      studentRepo,
	}
}

// CreateNotification copies the stream, teacher and student display fields
// into a new notification row. The copies are taken once and never repaired
// if the sources change later.
func (s *NotificationService) CreateNotification(ctx context.Context, in CreateNotificationInput) (*models.Notification, error) {
	stream, err := s.streamRepo.GetStreamByID(ctx, in.StreamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Stream does not exist")
		}
		return nil, err
	}

	teacher, err := s.teacherRepo.GetTeacherByID(ctx, in.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Teacher does not exist")
		}
		return nil, err
	}

	student, err := s.studentRepo.GetStudentByID(ctx, in.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Student does not exist")
		}
		return nil, err
	}

	notification := &models.Notification{
		Stream: models.NotificationStream{
			StreamID: stream.ID,
			Title:    stream.Title,
		},
		From:          teacher.Snapshot(),
		Student:       student.Snapshot(),
		StudentID:     student.ID,
		Rate:          in.Rate,
		AverageRating: stream.TotalRating,
		Feedback:      in.Feedback,
		VoiceNote:     in.VoiceNote,
	}
	if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return nil, err
	}

	cache.InvalidateUnreadCount(ctx, student.ID)
	return notification, nil
}

// GetNotification returns one notification by id.
func (s *NotificationService) GetNotification(ctx context.Context, id uint) (*models.Notification, error) {
	notification, err := s.notificationRepo.GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Notification", id)
		}
		return nil, err
	}
	return notification, nil
}

// ListForStudent returns a student's notifications, newest first.
func (s *NotificationService) ListForStudent(ctx context.Context, studentID uint) ([]*models.Notification, error) {
	return s.notificationRepo.GetNotificationsByStudent(ctx, studentID)
}

// MarkAllRead flags every unread notification of the student as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, studentID uint) error {
	if err := s.notificationRepo.MarkAllRead(ctx, studentID); err != nil {
		return err
	}
	cache.InvalidateUnreadCount(ctx, studentID)
	return nil
}

// UnreadCount returns the number of unread notifications for the student.
func (s *NotificationService) UnreadCount(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := cache.CacheAside(ctx, cache.UnreadCountKey(studentID), &count, cache.UnreadCountTTL, func() error {
		var fetchErr error
		count, fetchErr = s.notificationRepo.CountUnread(ctx, studentID)
		return fetchErr
	})
	return count, err
}
