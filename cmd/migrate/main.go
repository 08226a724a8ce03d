package main

import (
	"flag"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/video-summarizer/internal/infrastructure/database"
	"github.com/johnquangdev/video-summarizer/pkg/config"
)

func main() {
	dir := flag.String("dir", database.DefaultMigrationsDir, "directory holding the sql-migrate files")
	down := flag.Bool("down", false, "roll back instead of applying")
	steps := flag.Int("steps", 0, "maximum number of migrations to run (0 = all)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database using GORM
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	direction := migrate.Up
	verb := "Applying"
	if *down {
		direction = migrate.Down
		verb = "Rolling back"
		if *steps == 0 {
			// one step at a time unless asked otherwise
			*steps = 1
		}
	}

	log.Printf("🔄 %s migrations from %s/ ...", verb, *dir)
	n, err := database.Migrate(db, *dir, direction, *steps)
	if err != nil {
		log.Printf("❌ Migration failed after %d step(s): %v", n, err)
		database.CloseDB(db)
		os.Exit(1)
	}

	log.Printf("✅ Successfully ran %d migration(s)!", n)
}
