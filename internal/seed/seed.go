package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/Shukurulla/stream-service/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumTeachers int
	NumGroups   int
	NumStudents int
	NumStreams  int
	ShouldClean bool
}

var lessonTopics = map[string][]int{
	"Listening": {101, 102, 103, 104, 105, 106, 107, 108, 109, 110, 111, 112},
	"Writing":   {201, 202, 203, 204, 205, 206, 207, 208, 209, 210, 211},
	"Speaking":  {401, 402, 403, 404, 405},
	"Reading":   {201, 202, 203, 204, 205, 206, 207, 208, 209, 210, 211, 212},
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d teachers, %d groups, %d students, %d streams...",
		opts.NumTeachers, opts.NumGroups, opts.NumStudents, opts.NumStreams)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	teachers := make([]*models.Teacher, 0, opts.NumTeachers)
	for i := 0; i < opts.NumTeachers; i++ {
		teacher, err := f.CreateTeacher()
		if err != nil {
			return fmt.Errorf("failed to create teacher: %w", err)
		}
		teachers = append(teachers, teacher)
	}
	log.Printf("✓ %d teachers created", len(teachers))

	groups := make([]*models.Group, 0, opts.NumGroups)
	for i := 0; i < opts.NumGroups; i++ {
		group, err := f.CreateGroup()
		if err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		groups = append(groups, group)
	}
	log.Printf("✓ %d groups created", len(groups))

	students := make([]*models.Student, 0, opts.NumStudents)
	for i := 0; i < opts.NumStudents; i++ {
		student, err := f.CreateStudent(groups[r.Intn(len(groups))])
		if err != nil {
			return fmt.Errorf("failed to create student: %w", err)
		}
		students = append(students, student)
	}
	log.Printf("✓ %d students created", len(students))

	streams := make([]*models.Stream, 0, opts.NumStreams)
	for i := 0; i < opts.NumStreams; i++ {
		teacher := teachers[r.Intn(len(teachers))]
		stream, err := f.CreateStream(teacher, groups[r.Intn(len(groups))])
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		streams = append(streams, stream)

		// ended streams get ratings from other teachers
		if stream.IsEnded {
			for _, rater := range pickTeachers(r, teachers, teacher, 3) {
				if _, err := f.CreateStreamRating(stream, rater); err != nil {
					return fmt.Errorf("failed to create rating: %w", err)
				}
			}
		}
	}
	log.Printf("✓ %d streams created", len(streams))

	themeCount := 0
	for _, teacher := range teachers {
		for i := 0; i < r.Intn(3)+1; i++ {
			theme, err := f.CreateTheme(teacher, groups[r.Intn(len(groups))])
			if err != nil {
				return fmt.Errorf("failed to create theme: %w", err)
			}
			themeCount++

			for j := 0; j < r.Intn(4); j++ {
				if _, err := f.CreateThemeFeedback(theme, students[r.Intn(len(students))]); err != nil {
					return fmt.Errorf("failed to create theme feedback: %w", err)
				}
			}
		}
	}
	log.Printf("✓ %d themes created", themeCount)

	for _, stream := range streams {
		if !stream.IsEnded || r.Intn(2) == 0 {
			continue
		}
		teacher := teachers[r.Intn(len(teachers))]
		if _, err := f.CreateNotification(stream, teacher, students[r.Intn(len(students))]); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
	}

	for _, teacher := range teachers {
		if _, err := f.CreateFile(teacher, groups[r.Intn(len(groups))]); err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
	}

	for _, student := range students {
		if _, err := f.CreatePercent(student); err != nil {
			return fmt.Errorf("failed to create percent: %w", err)
		}

		// partial topic completion per lesson
		for lesson, topics := range lessonTopics {
			completed := r.Intn(len(topics) + 1)
			for _, topic := range topics[:completed] {
				if _, err := f.CreateScore(student, lesson, topic); err != nil {
					return fmt.Errorf("failed to create score: %w", err)
				}
			}
		}
	}
	log.Printf("✓ progress data created for %d students", len(students))

	for _, group := range groups {
		if _, err := f.CreatePlannedLesson(group); err != nil {
			return fmt.Errorf("failed to create planned lesson: %w", err)
		}
	}

	log.Println("🎉 Seeding complete")
	return nil
}

// pickTeachers selects up to n distinct teachers other than exclude.
func pickTeachers(r *rand.Rand, teachers []*models.Teacher, exclude *models.Teacher, n int) []*models.Teacher {
	var pool []*models.Teacher
	for _, t := range teachers {
		if t.ID != exclude.ID {
			pool = append(pool, t)
		}
	}
	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}

// clearData removes all rows from the seeded tables. Order matters only for
// readability; the schema has no cross-table foreign keys.
func clearData(db *gorm.DB) error {
	tables := []any{
		&models.Notification{},
		&models.StreamRating{},
		&models.StreamComment{},
		&models.StreamViewer{},
		&models.Stream{},
		&models.ThemeFeedback{},
		&models.Theme{},
		&models.File{},
		&models.Score{},
		&models.Percent{},
		&models.PlannedLesson{},
		&models.WebhookEvent{},
		&models.Student{},
		&models.Teacher{},
		&models.Group{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}
