package service

import (
	"context"
	"testing"

	"github.com/Shukurulla/stream-service/internal/database"
	"github.com/Shukurulla/stream-service/internal/models"
	"github.com/Shukurulla/stream-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProgressTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func newProgressService(db *gorm.DB) *ProgressService {
	return NewProgressService(
		repository.NewScoreRepository(db),
		repository.NewPercentRepository(db),
		repository.NewStudentRepository(db),
	)
}

func createTestStudent(t *testing.T, db *gorm.DB, name string) *models.Student {
	t.Helper()
	student := &models.Student{
		Name:     name,
		Password: "pw",
		Phone:    "+99890" + name,
		Group:    "ENG-101",
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

func TestSubmitScore_CreateThenUpdate(t *testing.T) {
	t.Parallel()

	db := setupProgressTestDB(t)
	svc := newProgressService(db)
	student := createTestStudent(t, db, "alisher")

	result, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
		StudentID: student.ID,
		Lesson:    "Listening",
		Topic:     101,
		Score:     80,
	})
	require.NoError(t, err)
	assert.False(t, result.Updated)
	assert.Equal(t, 80, result.Score.Score)

	// same (student, lesson, topic) overwrites in place
	result, err = svc.SubmitScore(context.Background(), SubmitScoreInput{
		StudentID: student.ID,
		Lesson:    "listening",
		Topic:     101,
		Score:     95,
	})
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, 95, result.Score.Score)

	var count int64
	require.NoError(t, db.Model(&models.Score{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "re-submission must not create a second row")

	// foreign key and snapshot id are distinct columns and both survive
	// the round trip
	var stored models.Score
	require.NoError(t, db.First(&stored, result.Score.ID).Error)
	assert.Equal(t, student.ID, stored.StudentID)
	assert.Equal(t, student.ID, stored.Student.ID)
}

func TestSubmitScore_UnknownLesson(t *testing.T) {
	t.Parallel()

	db := setupProgressTestDB(t)
	svc := newProgressService(db)
	student := createTestStudent(t, db, "bekzod")

	_, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
		StudentID: student.ID,
		Lesson:    "Astronomy",
		Topic:     1,
		Score:     50,
	})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestSubmitScore_UnknownStudent(t *testing.T) {
	t.Parallel()

	db := setupProgressTestDB(t)
	svc := newProgressService(db)

	_, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
		StudentID: 9999,
		Lesson:    "Writing",
		Topic:     201,
		Score:     70,
	})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestStudentProgress_Percentages(t *testing.T) {
	t.Parallel()

	db := setupProgressTestDB(t)
	svc := newProgressService(db)
	student := createTestStudent(t, db, "dilnoza")

	// 6 of 12 Listening topics, 2 of 5 Speaking topics
	for _, topic := range []int{101, 102, 103, 104, 105, 106} {
		_, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
			StudentID: student.ID, Lesson: "Listening", Topic: topic, Score: 75,
		})
		require.NoError(t, err)
	}
	for _, topic := range []int{401, 402} {
		_, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
			StudentID: student.ID, Lesson: "Speaking", Topic: topic, Score: 80,
		})
		require.NoError(t, err)
	}
	// repeat submission for an already-completed topic counts once
	_, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
		StudentID: student.ID, Lesson: "Listening", Topic: 101, Score: 90,
	})
	require.NoError(t, err)

	progress, err := svc.StudentProgress(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, progress.Lessons, 4, "every known lesson must be reported")

	byLesson := map[string]models.LessonProgress{}
	for _, lp := range progress.Lessons {
		byLesson[lp.Lesson] = lp
	}

	assert.Equal(t, 6, byLesson["Listening"].Completed)
	assert.Equal(t, 12, byLesson["Listening"].TotalTopics)
	assert.Equal(t, 50, byLesson["Listening"].Percentage)

	assert.Equal(t, 2, byLesson["Speaking"].Completed)
	assert.Equal(t, 5, byLesson["Speaking"].TotalTopics)
	assert.Equal(t, 40, byLesson["Speaking"].Percentage)

	assert.Equal(t, 0, byLesson["Writing"].Completed)
	assert.Equal(t, 0, byLesson["Writing"].Percentage)
	assert.Equal(t, 0, byLesson["Reading"].Completed)
}

func TestStudentProgress_Rounding(t *testing.T) {
	t.Parallel()

	db := setupProgressTestDB(t)
	svc := newProgressService(db)
	student := createTestStudent(t, db, "gulnora")

	// 1 of 12 is 8.33..., rounds to 8
	_, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
		StudentID: student.ID, Lesson: "Listening", Topic: 101, Score: 60,
	})
	require.NoError(t, err)

	// 2 of 11 is 18.18..., rounds to 18; 3 of 5 is exactly 60
	for _, topic := range []int{201, 202} {
		_, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
			StudentID: student.ID, Lesson: "Writing", Topic: topic, Score: 60,
		})
		require.NoError(t, err)
	}
	for _, topic := range []int{401, 402, 403} {
		_, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
			StudentID: student.ID, Lesson: "Speaking", Topic: topic, Score: 60,
		})
		require.NoError(t, err)
	}

	progress, err := svc.StudentProgress(context.Background(), student.ID)
	require.NoError(t, err)

	byLesson := map[string]int{}
	for _, lp := range progress.Lessons {
		byLesson[lp.Lesson] = lp.Percentage
	}
	assert.Equal(t, 8, byLesson["Listening"])
	assert.Equal(t, 18, byLesson["Writing"])
	assert.Equal(t, 60, byLesson["Speaking"])
}

func TestStudentProgress_UnknownStudent(t *testing.T) {
	t.Parallel()

	db := setupProgressTestDB(t)
	svc := newProgressService(db)

	_, err := svc.StudentProgress(context.Background(), 424242)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestLeaderboard_Ordering(t *testing.T) {
	t.Parallel()

	db := setupProgressTestDB(t)
	svc := newProgressService(db)

	low := createTestStudent(t, db, "low")
	high := createTestStudent(t, db, "high")
	mid := createTestStudent(t, db, "mid")

	submit := func(student *models.Student, lesson string, topics ...int) {
		for _, topic := range topics {
			_, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
				StudentID: student.ID, Lesson: lesson, Topic: topic, Score: 70,
			})
			require.NoError(t, err)
		}
	}

	submit(low, "Listening", 101)
	submit(high, "Listening", 101, 102, 103)
	submit(high, "Speaking", 401, 402)
	submit(mid, "Writing", 201, 202)
	// duplicate topic for high must not inflate the count
	submit(high, "Listening", 101)

	entries, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, high.ID, entries[0].Student.ID)
	assert.Equal(t, 5, entries[0].Completed)
	assert.Equal(t, mid.ID, entries[1].Student.ID)
	assert.Equal(t, 2, entries[1].Completed)
	assert.Equal(t, low.ID, entries[2].Student.ID)
	assert.Equal(t, 1, entries[2].Completed)
}

func TestLessonScores(t *testing.T) {
	t.Parallel()

	db := setupProgressTestDB(t)
	svc := newProgressService(db)

	a := createTestStudent(t, db, "aziza")
	b := createTestStudent(t, db, "botir")

	for _, topic := range []int{201, 202, 203} {
		_, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
			StudentID: a.ID, Lesson: "Reading", Topic: topic, Score: 65,
		})
		require.NoError(t, err)
	}
	_, err := svc.SubmitScore(context.Background(), SubmitScoreInput{
		StudentID: b.ID, Lesson: "Reading", Topic: 201, Score: 65,
	})
	require.NoError(t, err)
	// score in another lesson must not leak into the Reading ranking
	_, err = svc.SubmitScore(context.Background(), SubmitScoreInput{
		StudentID: b.ID, Lesson: "Writing", Topic: 201, Score: 65,
	})
	require.NoError(t, err)

	entries, err := svc.LessonScores(context.Background(), "reading")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, a.ID, entries[0].Student.ID)
	assert.Equal(t, 3, entries[0].Completed)
	assert.Equal(t, b.ID, entries[1].Student.ID)
	assert.Equal(t, 1, entries[1].Completed)

	_, err = svc.LessonScores(context.Background(), "Chemistry")
	require.Error(t, err)
}

func TestPercent_Lifecycle(t *testing.T) {
	t.Parallel()

	db := setupProgressTestDB(t)
	svc := newProgressService(db)
	student := createTestStudent(t, db, "kamola")

	percent, err := svc.CreatePercent(context.Background(), PercentInput{
		StudentID: student.ID,
		Science:   "Listening",
		Percent:   42,
	})
	require.NoError(t, err)
	assert.NotZero(t, percent.ID)

	_, err = svc.CreatePercent(context.Background(), PercentInput{
		StudentID: student.ID,
		Science:   "Listening",
		Percent:   101,
	})
	require.Error(t, err, "percent above 100 must be rejected")

	updated, err := svc.UpdatePercent(context.Background(), percent.ID, PercentInput{
		Science: "Reading",
		Percent: 77,
	})
	require.NoError(t, err)
	assert.Equal(t, 77, updated.Percent)
	assert.Equal(t, "Reading", updated.Science)

	require.NoError(t, svc.DeletePercent(context.Background(), percent.ID))

	err = svc.DeletePercent(context.Background(), percent.ID)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
