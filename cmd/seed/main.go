// Command seed fills the database with demo users, friendships and activity.
package main

import (
	"context"
	"flag"
	"log"

	"tally/internal/config"
	"tally/internal/database"
	"tally/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of random users to create")
	days := flag.Int("days", 45, "Days of activity history per user")
	friends := flag.Int("friends", 3, "Friendships to attempt per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixture := flag.String("fixture", "", "YAML fixture to load instead of random data")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = time based)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, loc)

	if *shouldClean {
		log.Println("🧹 Cleaning existing data...")
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if *fixture != "" {
		f, err := seed.LoadFixture(*fixture)
		if err != nil {
			log.Fatalf("❌ Fixture load failed: %v", err)
		}
		users, err := s.ApplyFixture(ctx, f)
		if err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
		log.Printf("✅ Loaded fixture with %d users", len(users))
		return
	}

	log.Printf("Target: %d users, %d days, clean=%v\n", *numUsers, *days, *shouldClean)
	users, err := s.Random(ctx, seed.Options{
		NumUsers:       *numUsers,
		Days:           *days,
		FriendsPerUser: *friends,
		Seed:           *randSeed,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✅ Seeded %d users (password %q)", len(users), seed.DefaultPassword)
}
