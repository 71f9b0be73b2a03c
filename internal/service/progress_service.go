package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/Shukurulla/stream-service/internal/cache"
	"github.com/Shukurulla/stream-service/internal/models"
	"github.com/Shukurulla/stream-service/internal/repository"

	"gorm.io/gorm"
)

// lessonTopics maps each lesson to its fixed set of topic identifiers. The
// lists are the curriculum the mobile clients ship with; progress percentages
// are computed against their sizes.
var lessonTopics = map[string][]int{
	"Listening": {101, 102, 103, 104, 105, 106, 107, 108, 109, 110, 111, 112},
	"Writing":   {201, 202, 203, 204, 205, 206, 207, 208, 209, 210, 211},
	"Speaking":  {401, 402, 403, 404, 405},
	"Reading":   {201, 202, 203, 204, 205, 206, 207, 208, 209, 210, 211, 212},
}

type ProgressService struct {
	scoreRepo   repository.ScoreRepository
	percentRepo repository.PercentRepository
	studentRepo repository.StudentRepository
}

type SubmitScoreInput struct {
	StudentID uint   `json:"studentId"`
	Lesson    string `json:"lesson"`
	Topic     int    `json:"topic"`
	Score     int    `json:"score"`
}

type PercentInput struct {
	StudentID uint   `json:"studentId"`
	Science   string `json:"science"`
	Percent   int    `json:"percent"`
}

// SubmitScoreResult reports whether the submission created a new row or
// updated an existing one.
type SubmitScoreResult struct {
	Score   *models.Score `json:"data"`
	Updated bool          `json:"updated"`
}

func NewProgressService(
	scoreRepo repository.ScoreRepository,
	percentRepo repository.PercentRepository,
	studentRepo repository.StudentRepository,
) *ProgressService {
	return &ProgressService{
		scoreRepo:   scoreRepo,
		percentRepo: percentRepo,
		studentRepo: studentRepo,
	}
}

// canonicalLesson resolves a lesson name case-insensitively against the
// known lessons. Returns "" when the lesson is unknown.
func canonicalLesson(lesson string) string {
	for name := range lessonTopics {
		if strings.EqualFold(name, lesson) {
			return name
		}
	}
	return ""
}

// TotalTopics returns the size of a lesson's topic list, 0 for unknown
// lessons.
func TotalTopics(lesson string) int {
	return len(lessonTopics[canonicalLesson(lesson)])
}

// SubmitScore records a student's result for one topic. A repeat submission
// for the same (student, lesson, topic) updates the stored score in place.
func (s *ProgressService) SubmitScore(ctx context.Context, in SubmitScoreInput) (*SubmitScoreResult, error) {
	lesson := canonicalLesson(in.Lesson)
	if lesson == "" {
		return nil, models.NewValidationError("Unknown lesson")
	}

	student, err := s.studentRepo.GetStudentByID(ctx, in.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Student does not exist")
		}
		return nil, err
	}

	score := &models.Score{
		StudentID: student.ID,
		Student:   student.Snapshot(),
		Lesson:    lesson,
		Topic:     in.Topic,
		Score:     in.Score,
	}
	updated, err := s.scoreRepo.UpsertScore(ctx, score)
	if err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.LeaderboardKey)
	return &SubmitScoreResult{Score: score, Updated: updated}, nil
}

// roundedPercentage computes round(completed/total*100), 0 for empty lessons.
func roundedPercentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// StudentProgress computes per-lesson completion for one student. Every known
// lesson appears in the result; lessons without any score report 0.
func (s *ProgressService) StudentProgress(ctx context.Context, studentID uint) (*models.StudentProgress, error) {
	student, err := s.studentRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Student", studentID)
		}
		return nil, err
	}

	scores, err := s.scoreRepo.GetScoresByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	// Unique topics per lesson; re-submissions of the same topic count once.
	completed := map[string]map[int]bool{}
	for _, score := range scores {
		if completed[score.Lesson] == nil {
			completed[score.Lesson] = map[int]bool{}
		}
		completed[score.Lesson][score.Topic] = true
	}

	progress := &models.StudentProgress{Student: student.Snapshot()}
	for _, lesson := range lessonNames() {
		total := len(lessonTopics[lesson])
		done := len(completed[lesson])
		progress.Lessons = append(progress.Lessons, models.LessonProgress{
			Lesson:      lesson,
			Completed:   done,
			TotalTopics: total,
			Percentage:  roundedPercentage(done, total),
		})
	}
	return progress, nil
}

func lessonNames() []string {
	names := make([]string, 0, len(lessonTopics))
	for name := range lessonTopics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Leaderboard ranks every student with scores by total topics completed
// across all lessons, descending. The ranking is cached and invalidated on
// every score submission.
func (s *ProgressService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := cache.CacheAside(ctx, cache.LeaderboardKey, &entries, cache.LeaderboardTTL, func() error {
		var err error
		entries, err = s.buildLeaderboard(ctx)
		return err
	})
	return entries, err
}

func (s *ProgressService) buildLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	scores, err := s.scoreRepo.GetAllScores(ctx)
	if err != nil {
		return nil, err
	}

	type acc struct {
		student models.StudentSnapshot
		topics  map[string]map[int]bool
	}
	byStudent := map[uint]*acc{}
	order := []uint{}
	for _, score := range scores {
		a, ok := byStudent[score.StudentID]
		if !ok {
			a = &acc{student: score.Student, topics: map[string]map[int]bool{}}
			byStudent[score.StudentID] = a
			order = append(order, score.StudentID)
		}
		if a.topics[score.Lesson] == nil {
			a.topics[score.Lesson] = map[int]bool{}
		}
		a.topics[score.Lesson][score.Topic] = true
	}

	entries := make([]models.LeaderboardEntry, 0, len(byStudent))
	for _, id := range order {
		a := byStudent[id]
		total := 0
		for _, topics := range a.topics {
			total += len(topics)
		}
		entries = append(entries, models.LeaderboardEntry{
			Student:   a.student,
			Completed: total,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Completed > entries[j].Completed
	})
	return entries, nil
}

// LessonScores ranks students by topics completed within one lesson.
func (s *ProgressService) LessonScores(ctx context.Context, lesson string) ([]models.LeaderboardEntry, error) {
	name := canonicalLesson(lesson)
	if name == "" {
		return nil, models.NewValidationError("Unknown lesson")
	}

	scores, err := s.scoreRepo.GetScoresByLesson(ctx, name)
	if err != nil {
		return nil, err
	}

	type acc struct {
		student models.StudentSnapshot
		topics  map[int]bool
	}
	byStudent := map[uint]*acc{}
	order := []uint{}
	for _, score := range scores {
		a, ok := byStudent[score.StudentID]
		if !ok {
			a = &acc{student: score.Student, topics: map[int]bool{}}
			byStudent[score.StudentID] = a
			order = append(order, score.StudentID)
		}
		a.topics[score.Topic] = true
	}

	entries := make([]models.LeaderboardEntry, 0, len(byStudent))
	for _, id := range order {
		a := byStudent[id]
		entries = append(entries, models.LeaderboardEntry{
			Student:   a.student,
			Completed: len(a.topics),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Completed > entries[j].Completed
	})
	return entries, nil
}

// CreatePercent records a coarse progress value for a student and science.
func (s *ProgressService) CreatePercent(ctx context.Context, in PercentInput) (*models.Percent, error) {
	if in.Percent < 0 || in.Percent > 100 {
		return nil, models.NewValidationError("Percent must be between 0 and 100")
	}
	if _, err := s.studentRepo.GetStudentByID(ctx, in.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Student does not exist")
		}
		return nil, err
	}

	percent := &models.Percent{
		StudentID: in.StudentID,
		Science:   in.Science,
		Percent:   in.Percent,
	}
	if err := s.percentRepo.CreatePercent(ctx, percent); err != nil {
		return nil, err
	}
	return percent, nil
}

// UpdatePercent edits an existing percent record.
func (s *ProgressService) UpdatePercent(ctx context.Context, id uint, in PercentInput) (*models.Percent, error) {
	percent, err := s.percentRepo.GetPercentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Percent", id)
		}
		return nil, err
	}

	if in.Percent < 0 || in.Percent > 100 {
		return nil, models.NewValidationError("Percent must be between 0 and 100")
	}
	percent.Percent = in.Percent
	if in.Science != "" {
		percent.Science = in.Science
	}

	if err := s.percentRepo.UpdatePercent(ctx, percent); err != nil {
		return nil, err
	}
	return percent, nil
}

// DeletePercent removes a percent record.
func (s *ProgressService) DeletePercent(ctx context.Context, id uint) error {
	if _, err := s.percentRepo.GetPercentByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Percent", id)
		}
		return err
	}
	return s.percentRepo.DeletePercent(ctx, id)
}
