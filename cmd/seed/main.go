// Command main runs the database seeder for the stream service.
package main

import (
	"flag"
	"log"

	"github.com/Shukurulla/stream-service/internal/config"
	"github.com/Shukurulla/stream-service/internal/database"
	"github.com/Shukurulla/stream-service/internal/seed"
)

func main() {
	numTeachers := flag.Int("teachers", 10, "Number of teachers to create")
	numGroups := flag.Int("groups", 6, "Number of groups to create")
	numStudents := flag.Int("students", 60, "Number of students to create")
	numStreams := flag.Int("streams", 40, "Number of streams to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumTeachers: *numTeachers,
		NumGroups:   *numGroups,
		NumStudents: *numStudents,
		NumStreams:  *numStreams,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
