// Package seed provides database seeding utilities for development and demos.
package seed

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"folio/internal/middleware"
	"folio/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed timeline.yaml
var timelineYAML []byte

// Options configure a demo seeding run.
type Options struct {
	Projects     int
	Testimonials int
	Blogs        int
	// MaxComments caps the comments generated per blog.
	MaxComments int
	// Seed makes the generated content reproducible when non-zero.
	Seed int64
}

// DefaultOptions is the demo size used by cmd/seed.
var DefaultOptions = Options{
	Projects:     6,
	Testimonials: 4,
	Blogs:        8,
	MaxComments:  3,
}

var blogCategories = []string{"engineering", "design", "career", "tooling"}

// LoadTimeline parses the embedded timeline fixture.
func LoadTimeline() ([]models.TimelineItem, error) {
	return ParseTimeline(timelineYAML)
}

// ParseTimeline decodes a YAML list of timeline items and validates each one.
func ParseTimeline(data []byte) ([]models.TimelineItem, error) {
	var items []models.TimelineItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse timeline fixture: %w", err)
	}
	for i := range items {
		items[i].ApplyDefaults()
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("timeline fixture entry %d: %w", i, err)
		}
	}
	return items, nil
}

// Timeline inserts the embedded timeline when the table is empty. It reports
// how many rows were created.
func Timeline(db *gorm.DB) (int, error) {
	items, err := LoadTimeline()
	if err != nil {
		return 0, err
	}

	created := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.TimelineItem{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		created = len(items)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed timeline: %w", err)
	}

	middleware.Logger.Info("timeline seeded", slog.Int("created", created))
	return created, nil
}

// Demo fills the content tables with generated projects, testimonials and
// blog posts. Images point at placeholder URLs, not stored uploads.
func Demo(db *gorm.DB, opts Options) error {
	faker := gofakeit.New(opts.Seed)

	projects := make([]models.Project, 0, opts.Projects)
	for i := 0; i < opts.Projects; i++ {
		projects = append(projects, buildProject(faker))
	}
	testimonials := make([]models.Testimonial, 0, opts.Testimonials)
	for i := 0; i < opts.Testimonials; i++ {
		testimonials = append(testimonials, buildTestimonial(faker))
	}
	blogs := make([]models.Blog, 0, opts.Blogs)
	for i := 0; i < opts.Blogs; i++ {
		blogs = append(blogs, buildBlog(faker, opts.MaxComments))
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(projects) > 0 {
			if err := tx.Create(&projects).Error; err != nil {
				return fmt.Errorf("projects: %w", err)
			}
		}
		if len(testimonials) > 0 {
			if err := tx.Create(&testimonials).Error; err != nil {
				return fmt.Errorf("testimonials: %w", err)
			}
		}
		// Blogs are created one by one so each gets its comments.
		for i := range blogs {
			if err := tx.Create(&blogs[i]).Error; err != nil {
				return fmt.Errorf("blogs: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed demo content: %w", err)
	}

	middleware.Logger.Info("demo content seeded",
		slog.Int("projects", len(projects)),
		slog.Int("testimonials", len(testimonials)),
		slog.Int("blogs", len(blogs)),
	)
	return nil
}

// Clean removes all portfolio content. Accounts, contacts and subscribers are kept.
func Clean(db *gorm.DB) error {
	tables := []any{
		&models.BlogComment{},
		&models.Blog{},
		&models.Project{},
		&models.Testimonial{},
		&models.TimelineItem{},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return fmt.Errorf("clean %T: %w", table, err)
			}
		}
		return nil
	})
}

func buildProject(f *gofakeit.Faker) models.Project {
	p := models.Project{
		Title:       strings.TrimSuffix(f.Sentence(3), "."),
		Description: f.Paragraph(1, 3, 12, " "),
		Image:       placeholderImage(f),
		Category:    f.RandomString([]string{"web", "mobile", "backend", "tooling"}),
		LiveURL:     f.URL(),
		GithubURL:   "https://github.com/" + f.Username() + "/" + strings.ToLower(f.Word()),
		Tags:        []string{f.ProgrammingLanguage(), f.ProgrammingLanguage()},
	}
	p.ApplyDefaults()
	return p
}

func buildTestimonial(f *gofakeit.Faker) models.Testimonial {
	return models.Testimonial{
		Name:    f.Name(),
		Company: f.Company(),
		Quote:   f.Sentence(16),
		Rating:  f.Number(4, 5),
	}
}

func buildBlog(f *gofakeit.Faker, maxComments int) models.Blog {
	b := models.Blog{
		Title:     strings.TrimSuffix(f.Sentence(6), "."),
		Content:   f.Paragraph(4, 5, 14, "\n\n"),
		Author:    f.Name(),
		Image:     placeholderImage(f),
		Tags:      []string{f.BuzzWord(), f.ProgrammingLanguage()},
		ReadTime:  f.Number(2, 12),
		Views:     f.Number(0, 500),
		Likes:     f.Number(0, 60),
		Category:  f.RandomString(blogCategories),
		Featured:  f.Bool(),
		Trending:  f.Number(0, 4) == 0,
		CreatedAt: time.Now().Add(-time.Duration(f.Number(0, 90*24)) * time.Hour),
	}
	if maxComments > 0 {
		for i := f.Number(0, maxComments); i > 0; i-- {
			b.Comments = append(b.Comments, models.BlogComment{
				Author:  f.FirstName(),
				Content: f.Sentence(10),
			})
		}
	}
	b.ApplyDefaults()
	return b
}

func placeholderImage(f *gofakeit.Faker) string {
	return "https://picsum.photos/seed/" + strconv.Itoa(f.Number(1, 1_000_000)) + "/1200/800"
}
