package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/bookit/experience-booking/internal/config"
	"github.com/bookit/experience-booking/internal/database"
	"github.com/bookit/experience-booking/internal/repository"
	"github.com/bookit/experience-booking/internal/seed"
)

// The seeder resets the catalog: `go run ./cmd/seed` imports the fixture
// experiences (clearing existing data first), `go run ./cmd/seed -d` only
// destroys.
func main() {
	destroy := flag.Bool("d", false, "destroy all data instead of importing fixtures")
	flag.Parse()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	experiences := repository.NewExperienceRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Both modes start from a clean slate.
	if err := bookings.DeleteAll(ctx); err != nil {
		log.Fatalf("delete bookings: %v", err)
	}
	if err := experiences.DeleteAll(ctx); err != nil {
		log.Fatalf("delete experiences: %v", err)
	}

	if *destroy {
		log.Println("data destroyed successfully")
		return
	}

	for _, exp := range seed.Experiences() {
		e := exp
		if err := experiences.Insert(ctx, &e); err != nil {
			log.Fatalf("insert experience %q: %v", e.Title, err)
		}
		log.Printf("seeded experience %d: %s (%d slots)", e.ID, e.Title, len(e.Slots))
	}
	log.Println("data imported successfully")
}
