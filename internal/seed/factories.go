// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Shukurulla/stream-service/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var sciences = []string{
	"Listening", "Writing", "Speaking", "Reading",
	"Grammar", "Vocabulary", "IELTS Prep",
}

var classRooms = []string{"101", "102", "201", "204", "305", "Lab A", "Lab B"}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *Factory) hashPassword(plain string) string {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(hashed)
}

// CreateTeacher constructs and persists a sample `models.Teacher`.
// Optional override functions may modify the generated teacher before saving.
func (f *Factory) CreateTeacher(overrides ...func(*models.Teacher)) (*models.Teacher, error) {
	password := "password123"
	teacher := &models.Teacher{
		Name:             gofakeit.Name(),
		Password:         f.hashPassword(password),
		OriginalPassword: password,
		Science:          sciences[f.r.Intn(len(sciences))],
		ProfileImage:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(teacher)
	}

	if err := f.db.Create(teacher).Error; err != nil {
		return nil, err
	}
	return teacher, nil
}

// CreateGroup constructs and persists a sample `models.Group`.
func (f *Factory) CreateGroup(overrides ...func(*models.Group)) (*models.Group, error) {
	group := &models.Group{
		Name: fmt.Sprintf("%s-%d", gofakeit.LetterN(3), gofakeit.Number(100, 999)),
		Kurs: fmt.Sprintf("%d", f.r.Intn(4)+1),
	}

	for _, override := range overrides {
		override(group)
	}

	if err := f.db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// CreateStudent constructs and persists a sample `models.Student` in the
// given group.
func (f *Factory) CreateStudent(group *models.Group, overrides ...func(*models.Student)) (*models.Student, error) {
	password := "password123"
	student := &models.Student{
		Name:             gofakeit.Name(),
		Password:         f.hashPassword(password),
		OriginalPassword: password,
		Phone:            fmt.Sprintf("+99890%07d", f.r.Intn(10000000)),
		Group:            group.Name,
		Kurs:             group.Kurs,
		ProfileImage:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(student)
	}

	if err := f.db.Create(student).Error; err != nil {
		return nil, err
	}
	return student, nil
}

// CreateStream constructs and persists a sample `models.Stream` owned by the
// given teacher. The provider identifier is synthesized since no real
// broadcast backs seeded data.
func (f *Factory) CreateStream(teacher *models.Teacher, group *models.Group, overrides ...func(*models.Stream)) (*models.Stream, error) {
	// realistic planned time spread around now
	offset := time.Duration(f.r.Intn(14*24)-7*24) * time.Hour
	stream := &models.Stream{
		Title:        gofakeit.Sentence(4),
		Description:  gofakeit.Paragraph(1, 2, 8, " "),
		PlanStream:   time.Now().Add(offset).Truncate(time.Minute),
		ClassRoom:    classRooms[f.r.Intn(len(classRooms))],
		Group:        group.Name,
		Science:      teacher.Science,
		Teacher:      teacher.Snapshot(),
		LiveStreamID: "li" + uuid.New().String()[:22],
	}

	if stream.PlanStream.Before(time.Now()) {
		stream.IsEnded = true
		stream.EndedTime = stream.PlanStream.Add(90 * time.Minute).Format(time.RFC3339)
	}

	for _, override := range overrides {
		override(stream)
	}

	if err := f.db.Create(stream).Error; err != nil {
		return nil, err
	}
	return stream, nil
}

// CreateStreamRating persists a rating by the given rater and updates the
// stream's mean the same way the API path does.
func (f *Factory) CreateStreamRating(stream *models.Stream, rater *models.Teacher, overrides ...func(*models.StreamRating)) (*models.StreamRating, error) {
	rating := &models.StreamRating{
		StreamID: stream.ID,
		Rater:    rater.Snapshot(),
		Rate:     f.r.Intn(5) + 1,
		Feedback: gofakeit.Sentence(10),
	}

	for _, override := range overrides {
		override(rating)
	}

	if err := f.db.Create(rating).Error; err != nil {
		return nil, err
	}

	var ratings []models.StreamRating
	if err := f.db.Where("stream_id = ?", stream.ID).Find(&ratings).Error; err != nil {
		return nil, err
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rate
	}
	stream.TotalRating = float64(sum) / float64(len(ratings))
	if err := f.db.Model(stream).Update("total_rating", stream.TotalRating).Error; err != nil {
		return nil, err
	}
	return rating, nil
}

// CreateTheme constructs and persists a sample `models.Theme`.
func (f *Factory) CreateTheme(teacher *models.Teacher, group *models.Group, overrides ...func(*models.Theme)) (*models.Theme, error) {
	theme := &models.Theme{
		Title:   gofakeit.Sentence(5),
		Group:   group.Name,
		Teacher: teacher.Snapshot(),
	}

	for _, override := range overrides {
		override(theme)
	}

	if err := f.db.Create(theme).Error; err != nil {
		return nil, err
	}
	return theme, nil
}

// CreateThemeFeedback persists one feedback document for the given theme.
func (f *Factory) CreateThemeFeedback(theme *models.Theme, student *models.Student, overrides ...func(*models.ThemeFeedback)) (*models.ThemeFeedback, error) {
	feedback := &models.ThemeFeedback{
		ThemeID:  theme.ID,
		Title:    theme.Title,
		Group:    theme.Group,
		Teacher:  theme.Teacher,
		Student:  student.Snapshot(),
		Rating:   f.r.Intn(5) + 1,
		Feedback: gofakeit.Sentence(12),
	}

	for _, override := range overrides {
		override(feedback)
	}

	if err := f.db.Create(feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

// CreateNotification persists a feedback notification addressed to the
// student, copying display fields the way the API path does.
func (f *Factory) CreateNotification(stream *models.Stream, from *models.Teacher, student *models.Student, overrides ...func(*models.Notification)) (*models.Notification, error) {
	notification := &models.Notification{
		Stream: models.NotificationStream{
			StreamID: stream.ID,
			Title:    stream.Title,
		},
		From:          from.Snapshot(),
		Student:       student.Snapshot(),
		StudentID:     student.ID,
		Rate:          f.r.Intn(5) + 1,
		AverageRating: stream.TotalRating,
		Feedback:      gofakeit.Sentence(8),
	}

	for _, override := range overrides {
		override(notification)
	}

	if err := f.db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

// CreateFile persists a shared-file record pointing at a placeholder URL.
func (f *Factory) CreateFile(teacher *models.Teacher, group *models.Group, overrides ...func(*models.File)) (*models.File, error) {
	file := &models.File{
		Title:       gofakeit.Sentence(3),
		Description: gofakeit.Sentence(10),
		FileURL:     fmt.Sprintf("https://example.com/uploads/%s.pdf", gofakeit.UUID()),
		From:        teacher.Snapshot(),
		Group:       models.GroupSnapshot{ID: group.ID, Name: group.Name},
	}

	for _, override := range overrides {
		override(file)
	}

	if err := f.db.Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

// CreatePercent persists a coarse progress record for the student.
func (f *Factory) CreatePercent(student *models.Student, overrides ...func(*models.Percent)) (*models.Percent, error) {
	percent := &models.Percent{
		StudentID: student.ID,
		Science:   sciences[f.r.Intn(len(sciences))],
		Percent:   f.r.Intn(101),
	}

	for _, override := range overrides {
		override(percent)
	}

	if err := f.db.Create(percent).Error; err != nil {
		return nil, err
	}
	return percent, nil
}

// CreateScore persists one topic score row for the student.
func (f *Factory) CreateScore(student *models.Student, lesson string, topic int, overrides ...func(*models.Score)) (*models.Score, error) {
	score := &models.Score{
		StudentID: student.ID,
		Lesson:    lesson,
		Topic:     topic,
		Student:   student.Snapshot(),
		Score:     f.r.Intn(41) + 60,
	}

	for _, override := range overrides {
		override(score)
	}

	if err := f.db.Create(score).Error; err != nil {
		return nil, err
	}
	return score, nil
}

// CreatePlannedLesson persists an upcoming agenda entry.
func (f *Factory) CreatePlannedLesson(group *models.Group, overrides ...func(*models.PlannedLesson)) (*models.PlannedLesson, error) {
	lesson := &models.PlannedLesson{
		Theme:    gofakeit.Sentence(4),
		Group:    group.Name,
		DateTime: time.Now().Add(time.Duration(f.r.Intn(72)+1) * time.Hour).Truncate(time.Minute),
	}

	for _, override := range overrides {
		override(lesson)
	}

	if err := f.db.Create(lesson).Error; err != nil {
		return nil, err
	}
	return lesson, nil
}
