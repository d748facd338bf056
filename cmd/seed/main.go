// Command main seeds the Folio database with the timeline and demo content.
package main

import (
	"flag"
	"log"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/seed"
)

func main() {
	demo := flag.Bool("demo", false, "Also generate demo projects, testimonials and blog posts")
	clean := flag.Bool("clean", false, "Remove all portfolio content before seeding")
	projects := flag.Int("projects", seed.DefaultOptions.Projects, "Number of demo projects")
	testimonials := flag.Int("testimonials", seed.DefaultOptions.Testimonials, "Number of demo testimonials")
	blogs := flag.Int("blogs", seed.DefaultOptions.Blogs, "Number of demo blog posts")
	fakerSeed := flag.Int64("seed", 0, "Faker seed for reproducible demo content (0 = random)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	if *clean {
		if err := seed.Clean(db); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		log.Println("Content tables cleaned")
	}

	created, err := seed.Timeline(db)
	if err != nil {
		log.Fatalf("Timeline seeding failed: %v", err)
	}
	log.Printf("Timeline: %d entries created", created)

	if *demo {
		opts := seed.DefaultOptions
		opts.Projects = *projects
		opts.Testimonials = *testimonials
		opts.Blogs = *blogs
		opts.Seed = *fakerSeed
		if err := seed.Demo(db, opts); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		log.Printf("Demo content: %d projects, %d testimonials, %d blog posts", opts.Projects, opts.Testimonials, opts.Blogs)
	}

	log.Println("Seeding complete")
}
