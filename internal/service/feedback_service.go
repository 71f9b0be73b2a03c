package service

import (
	"context"
	"errors"
	"sort"

	"github.com/Shukurulla/stream-service/internal/models"
	"github.com/Shukurulla/stream-service/internal/observability"
	"github.com/Shukurulla/stream-service/internal/repository"

	"gorm.io/gorm"
)

type FeedbackService struct {
	streamRepo       repository.StreamRepository
	teacherRepo      repository.TeacherRepository
	studentRepo      repository.StudentRepository
	themeRepo        repository.ThemeRepository
	feedbackRepo     repository.ThemeFeedbackRepository
	notificationRepo repository.NotificationRepository
}

type StreamFeedbackInput struct {
	RaterID     uint   `json:"raterId"`
	Rate        int    `json:"rate"`
	Feedback    string `json:"feedback"`
	VoiceNote   string `json:"voiceNote"`
	CommentText string `json:"commentText"`
}

// StreamFeedbackList is the read-side payload of a stream's ratings.
type StreamFeedbackList struct {
	Message       string                 `json:"message"`
	Feedbacks     []*models.StreamRating `json:"feedbacks"`
	AverageRating float64                `json:"averageRating"`
}

type ThemeFeedbackInput struct {
	ThemeID      uint   `json:"themeId"`
	TeacherID    uint   `json:"teacherId"`
	StudentID    uint   `json:"studentId"`
	Rating       int    `json:"rating"`
	Feedback     string `json:"feedback"`
	VoiceMessage string `json:"voiceMessage"`
}

func NewFeedbackService(
	streamRepo repository.StreamRepository,
	teacherRepo repository.TeacherRepository,
	studentRepo repository.StudentRepository,
	themeRepo repository.ThemeRepository,
	feedbackRepo repository.ThemeFeedbackRepository,
	notificationRepo repository.NotificationRepository,
) *FeedbackService {
	return &FeedbackService{
		streamRepo:       streamRepo,
		teacherRepo:      teacherRepo,
		studentRepo:      studentRepo,
		themeRepo:        themeRepo,
		feedbackRepo:     feedbackRepo,
		notificationRepo: notificationRepo,
	}
}

// SubmitStreamFeedback appends a rating to a stream. One rating per rater per
// stream, strictly create-once: a second submission from the same rater is
// rejected, never overwritten. The stream's TotalRating is recomputed as the
// plain mean over all ratings including the new one.
func (s *FeedbackService) SubmitStreamFeedback(ctx context.Context, streamID uint, in StreamFeedbackInput) (*models.Stream, error) {
	if in.Rate < 1 || in.Rate > 5 {
		return nil, models.NewValidationError("Rate must be between 1 and 5")
	}

	stream, err := s.streamRepo.GetStreamByID(ctx, streamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Stream", streamID)
		}
		return nil, err
	}

	rater, err := s.teacherRepo.GetTeacherByID(ctx, in.RaterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Teacher", in.RaterID)
		}
		return nil, err
	}

	priorRatings, err := s.streamRepo.GetRatingsByRater(ctx, in.RaterID)
	if err != nil {
		return nil, err
	}
	for _, existing := range priorRatings {
		if existing.StreamID == streamID {
			return nil, models.NewDuplicateError("You have already rated this stream")
		}
	}

	rating := &models.StreamRating{
		StreamID:  streamID,
		Rater:     rater.Snapshot(),
		Rate:      in.Rate,
		Feedback:  in.Feedback,
		VoiceNote: in.VoiceNote,
	}
	if err := s.streamRepo.CreateRating(ctx, rating); err != nil {
		return nil, err
	}

	// Full rescan, never incremental.
	ratings, err := s.streamRepo.GetRatingsByStream(ctx, streamID)
	if err != nil {
		return nil, err
	}
	stream.TotalRating = meanRate(ratings)
	if err := s.streamRepo.UpdateStream(ctx, stream); err != nil {
		return nil, err
	}

	if in.CommentText != "" {
		comment := &models.StreamComment{
			StreamID: streamID,
			UserID:   rater.ID,
			UserName: rater.Name,
			Comment:  in.CommentText,
		}
		if err := s.streamRepo.CreateComment(ctx, comment); err != nil {
			return nil, err
		}
		stream.Comments = append(stream.Comments, *comment)
	}

	observability.FeedbackSubmittedTotal.WithLabelValues("stream").Inc()
	stream.Ratings = append(stream.Ratings, *rating)
	return stream, nil
}

func meanRate(ratings []*models.StreamRating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rate
	}
	return float64(sum) / float64(len(ratings))
}

// ListStreamFeedbacks returns all ratings of a stream together with their
// mean. Zero ratings is a normal outcome, not an error.
func (s *FeedbackService) ListStreamFeedbacks(ctx context.Context, streamID uint) (*StreamFeedbackList, error) {
	if _, err := s.streamRepo.GetStreamByID(ctx, streamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Stream", streamID)
		}
		return nil, err
	}
	ratings, err := s.streamRepo.GetRatingsByStream(ctx, streamID)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return &StreamFeedbackList{Message: "No feedback has been left for this stream yet"}, nil
	}
	return &StreamFeedbackList{
		Message:       "Stream feedbacks",
		Feedbacks:     ratings,
		AverageRating: meanRate(ratings),
	}, nil
}

// MarkStreamFeedbacksRead flags every rating of the stream as read.
func (s *FeedbackService) MarkStreamFeedbacksRead(ctx context.Context, streamID uint) error {
	if _, err := s.streamRepo.GetStreamByID(ctx, streamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Stream", streamID)
		}
		return err
	}
	return s.streamRepo.MarkRatingsRead(ctx, streamID)
}

// CreateThemeFeedback records student feedback on a theme. Teacher, student
// and theme must exist and are denormalized into the record. Unlike stream
// ratings, repeat submissions are allowed.
func (s *FeedbackService) CreateThemeFeedback(ctx context.Context, in ThemeFeedbackInput) (*models.ThemeFeedback, error) {
	theme, err := s.themeRepo.GetThemeByID(ctx, in.ThemeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Theme does not exist")
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

	feedback := &models.ThemeFeedback{
		ThemeID:      theme.ID,
		Title:        theme.Title,
		Group:        theme.Group,
		Teacher:      teacher.Snapshot(),
		Student:      student.Snapshot(),
		Rating:       in.Rating,
		Feedback:     in.Feedback,
		VoiceMessage: in.VoiceMessage,
	}
	if err := s.feedbackRepo.CreateFeedback(ctx, feedback); err != nil {
		return nil, err
	}

	observability.FeedbackSubmittedTotal.WithLabelValues("theme").Inc()
	return feedback, nil
}

// GetThemeFeedback returns one theme feedback record.
func (s *FeedbackService) GetThemeFeedback(ctx context.Context, id uint) (*models.ThemeFeedback, error) {
	feedback, err := s.feedbackRepo.GetFeedbackByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Feedback", id)
		}
		return nil, err
	}
	return feedback, nil
}

// ListThemeFeedbacks returns all theme feedback records.
func (s *FeedbackService) ListThemeFeedbacks(ctx context.Context) ([]*models.ThemeFeedback, error) {
	return s.feedbackRepo.GetAllFeedbacks(ctx)
}

// ListThemeFeedbacksByTheme returns all feedback for one theme.
func (s *FeedbackService) ListThemeFeedbacksByTheme(ctx context.Context, themeID uint) ([]*models.ThemeFeedback, error) {
	return s.feedbackRepo.GetFeedbacksByTheme(ctx, themeID)
}

// UpdateThemeFeedback edits the mutable fields of a theme feedback record.
// Snapshots are immutable and stay as written.
func (s *FeedbackService) UpdateThemeFeedback(ctx context.Context, id uint, in ThemeFeedbackInput) (*models.ThemeFeedback, error) {
	feedback, err := s.feedbackRepo.GetFeedbackByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Feedback", id)
		}
		return nil, err
	}

	if in.Rating != 0 {
		feedback.Rating = in.Rating
	}
	if in.Feedback != "" {
		feedback.Feedback = in.Feedback
	}
	if in.VoiceMessage != "" {
		feedback.VoiceMessage = in.VoiceMessage
	}

	if err := s.feedbackRepo.UpdateFeedback(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// DeleteThemeFeedback removes a theme feedback record.
func (s *FeedbackService) DeleteThemeFeedback(ctx context.Context, id uint) error {
	if _, err := s.feedbackRepo.GetFeedbackByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Feedback", id)
		}
		return err
	}
	return s.feedbackRepo.DeleteFeedback(ctx, id)
}

// ListFeedbackForTeacher merges the teacher's stream ratings and theme
// feedbacks into one feed, oldest first. A non-empty group narrows both
// sources to that group.
func (s *FeedbackService) ListFeedbackForTeacher(ctx context.Context, teacherID uint, group string) ([]models.TeacherFeedbackItem, error) {
	if _, err := s.teacherRepo.GetTeacherByID(ctx, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Teacher", teacherID)
		}
		return nil, err
	}

	streams, err := s.streamRepo.GetStreamsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	themeFeedbacks, err := s.feedbackRepo.GetFeedbacksByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	type dated struct {
		item models.TeacherFeedbackItem
		at   int64
	}
	var feed []dated
	for _, stream := range streams {
		if group != "" && stream.Group != group {
			continue
		}
		for _, rating := range stream.Ratings {
			feed = append(feed, dated{
				item: models.TeacherFeedbackItem{IsStream: true, Item: rating},
				at:   rating.CreatedAt.UnixNano(),
			})
		}
	}
	for _, fb := range themeFeedbacks {
		if group != "" && fb.Group != group {
			continue
		}
		feed = append(feed, dated{
			item: models.TeacherFeedbackItem{IsStream: false, Item: fb},
			at:   fb.CreatedAt.UnixNano(),
		})
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].at < feed[j].at })

	items := make([]models.TeacherFeedbackItem, 0, len(feed))
	for _, d := range feed {
		items = append(items, d.item)
	}
	return items, nil
}

// AverageRating is the mean over everything a student has been rated on:
// notification rates and theme feedback ratings in one pool. No rated items
// means 0, not an error.
func (s *FeedbackService) AverageRating(ctx context.Context, studentID uint) (float64, error) {
	notifications, err := s.notificationRepo.GetNotificationsByStudent(ctx, studentID)
	if err != nil {
		return 0, err
	}
	themeFeedbacks, err := s.feedbackRepo.GetFeedbacksByStudent(ctx, studentID)
	if err != nil {
		return 0, err
	}

	sum, count := 0, 0
	for _, n := range notifications {
		if n.Rate != 0 {
			sum += n.Rate
			count++
		}
	}
	for _, fb := range themeFeedbacks {
		if fb.Rating != 0 {
			sum += fb.Rating
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}
