package testutil

import (
	"strconv"

	"folio/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// FakeProject returns a valid project without an ID.
func FakeProject() *models.Project {
	return &models.Project{
		Title:       gofakeit.AppName(),
		Description: gofakeit.Sentence(12),
		Image:       "/uploads/projects/" + gofakeit.UUID() + ".png",
		Category:    gofakeit.RandomString([]string{"web", "mobile", "cli"}),
		LiveURL:     gofakeit.URL(),
		Tags:        []string{gofakeit.ProgrammingLanguage(), gofakeit.ProgrammingLanguage()},
	}
}

// FakeTestimonial returns a valid testimonial without an ID.
func FakeTestimonial() *models.Testimonial {
	return &models.Testimonial{
		Name:    gofakeit.Name(),
		Company: gofakeit.Company(),
		Quote:   gofakeit.Sentence(10),
		Rating:  gofakeit.Number(1, 5),
	}
}

// FakeBlog returns a valid blog post without an ID.
func FakeBlog() *models.Blog {
	return &models.Blog{
		Title:    gofakeit.Sentence(5),
		Content:  gofakeit.Paragraph(2, 4, 12, " "),
		Image:    "/uploads/blogs/" + gofakeit.UUID() + ".png",
		Category: "engineering",
		ReadTime: gofakeit.Number(1, 15),
		Tags:     []string{gofakeit.Word()},
	}
}

// FakeTimelineItem returns a valid work entry without an ID.
func FakeTimelineItem() *models.TimelineItem {
	return &models.TimelineItem{
		Title:        gofakeit.JobTitle(),
		Company:      gofakeit.Company(),
		Year:         strconv.Itoa(gofakeit.Year()),
		Description:  gofakeit.Sentence(8),
		Type:         models.TimelineWork,
		Achievements: []string{gofakeit.Sentence(4)},
	}
}
