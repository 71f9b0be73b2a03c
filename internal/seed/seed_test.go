package seed

import (
	"testing"

	"github.com/Shukurulla/stream-service/internal/database"
	"github.com/Shukurulla/stream-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeed_ProducesRequestedCounts(t *testing.T) {
	db := setupSeedTestDB(t)

	require.NoError(t, Seed(db, Options{
		NumTeachers: 3,
		NumGroups:   2,
		NumStudents: 8,
		NumStreams:  5,
		ShouldClean: false,
	}))

	var teachers, groups, students, streams int64
	require.NoError(t, db.Model(&models.Teacher{}).Count(&teachers).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	require.NoError(t, db.Model(&models.Student{}).Count(&students).Error)
	require.NoError(t, db.Model(&models.Stream{}).Count(&streams).Error)

	assert.EqualValues(t, 3, teachers)
	assert.EqualValues(t, 2, groups)
	assert.EqualValues(t, 8, students)
	assert.EqualValues(t, 5, streams)
}

func TestSeed_RatingsMatchStoredMean(t *testing.T) {
	db := setupSeedTestDB(t)

	require.NoError(t, Seed(db, Options{
		NumTeachers: 4,
		NumGroups:   2,
		NumStudents: 4,
		NumStreams:  10,
		ShouldClean: false,
	}))

	var streams []models.Stream
	require.NoError(t, db.Preload("Ratings").Find(&streams).Error)

	for _, stream := range streams {
		if len(stream.Ratings) == 0 {
			assert.Zero(t, stream.TotalRating, "stream %d", stream.ID)
			continue
		}
		sum := 0
		for _, r := range stream.Ratings {
			require.GreaterOrEqual(t, r.Rate, 1)
			require.LessOrEqual(t, r.Rate, 5)
			sum += r.Rate
		}
		want := float64(sum) / float64(len(stream.Ratings))
		assert.InDelta(t, want, stream.TotalRating, 0.001, "stream %d", stream.ID)
	}
}

func TestSeed_CleanRemovesPreviousRun(t *testing.T) {
	db := setupSeedTestDB(t)

	require.NoError(t, Seed(db, Options{NumTeachers: 2, NumGroups: 1, NumStudents: 2, NumStreams: 2}))
	require.NoError(t, Seed(db, Options{NumTeachers: 1, NumGroups: 1, NumStudents: 1, NumStreams: 1, ShouldClean: true}))

	var teachers int64
	require.NoError(t, db.Model(&models.Teacher{}).Count(&teachers).Error)
	assert.EqualValues(t, 1, teachers)
}

func TestFactory_CreateStudentBelongsToGroup(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db)

	group, err := f.CreateGroup()
	require.NoError(t, err)

	student, err := f.CreateStudent(group)
	require.NoError(t, err)
	assert.Equal(t, group.Name, student.Group)
	assert.NotEmpty(t, student.Phone)
	assert.NotEqual(t, student.OriginalPassword, student.Password)
}

func TestFactory_ScoresStayWithinLessonTopics(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db)

	group, err := f.CreateGroup()
	require.NoError(t, err)
	student, err := f.CreateStudent(group)
	require.NoError(t, err)

	score, err := f.CreateScore(student, "Listening", 105)
	require.NoError(t, err)
	assert.Equal(t, "Listening", score.Lesson)
	assert.Equal(t, 105, score.Topic)
	assert.Equal(t, student.ID, score.StudentID)
}
