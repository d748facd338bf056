package models

import (
	"strings"
	"time"
)

// ContentItem is implemented by the four portfolio content types.
type ContentItem interface {
	GetID() uint
	// ResourceName is the human name used in messages, e.g. "Project".
	ResourceName() string
	ImageRef() string
	SetImageRef(ref string)
	// ImageRequired reports whether an image must be present at creation.
	ImageRequired() bool
	ApplyDefaults()
	Validate() error
}

// Timeline item types.
const (
	TimelineWork      = "work"
	TimelineEducation = "education"
)

// Project is a portfolio project.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Image       string    `gorm:"not null" json:"image"`
	Category    string    `gorm:"not null;index" json:"category"`
	LiveURL     string    `json:"liveUrl,omitempty"`
	GithubURL   string    `json:"githubUrl,omitempty"`
	Tags        []string  `gorm:"type:text;serializer:json" json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Project) GetID() uint            { return p.ID }
func (*Project) ResourceName() string     { return "Project" }
func (p *Project) ImageRef() string       { return p.Image }
func (p *Project) SetImageRef(ref string) { p.Image = ref }
func (*Project) ImageRequired() bool      { return true }

func (p *Project) ApplyDefaults() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

func (p *Project) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	switch {
	case p.Title == "":
		return NewValidationError("Title is required")
	case strings.TrimSpace(p.Description) == "":
		return NewValidationError("Description is required")
	case strings.TrimSpace(p.Category) == "":
		return NewValidationError("Category is required")
	}
	return nil
}

// Testimonial is a client quote.
type Testimonial struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Company   string    `gorm:"not null" json:"company"`
	Quote     string    `gorm:"type:text;not null" json:"quote"`
	Image     string    `json:"image,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Testimonial) GetID() uint            { return t.ID }
func (*Testimonial) ResourceName() string     { return "Testimonial" }
func (t *Testimonial) ImageRef() string       { return t.Image }
func (t *Testimonial) SetImageRef(ref string) { t.Image = ref }
func (*Testimonial) ImageRequired() bool      { return false }

func (t *Testimonial) ApplyDefaults() {
	if t.Rating == 0 {
		t.Rating = 5
	}
}

func (t *Testimonial) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	switch {
	case t.Name == "":
		return NewValidationError("Name is required")
	case strings.TrimSpace(t.Company) == "":
		return NewValidationError("Company is required")
	case strings.TrimSpace(t.Quote) == "":
		return NewValidationError("Quote is required")
	case t.Rating < 1 || t.Rating > 5:
		return NewValidationError("Rating must be between 1 and 5")
	}
	return nil
}

// Blog is a blog post with its public comments.
type Blog struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Title     string        `gorm:"not null" json:"title"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	Author    string        `gorm:"not null" json:"author"`
	Image     string        `gorm:"not null" json:"image"`
	Tags      []string      `gorm:"type:text;serializer:json" json:"tags"`
	ReadTime  int           `gorm:"not null" json:"readTime"`
	Views     int           `gorm:"not null" json:"views"`
	Category  string        `gorm:"not null;index" json:"category"`
	Featured  bool          `gorm:"not null" json:"featured"`
	Likes     int           `gorm:"not null" json:"likes"`
	Trending  bool          `gorm:"not null" json:"trending"`
	Comments  []BlogComment `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"comments"`
	CreatedAt time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// BlogComment is a public comment appended to a blog post.
type BlogComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlogID    uint      `gorm:"not null;index" json:"-"`
	Author    string    `gorm:"not null" json:"author"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b *Blog) GetID() uint            { return b.ID }
func (*Blog) ResourceName() string     { return "Blog post" }
func (b *Blog) ImageRef() string       { return b.Image }
func (b *Blog) SetImageRef(ref string) { b.Image = ref }
func (*Blog) ImageRequired() bool      { return true }

func (b *Blog) ApplyDefaults() {
	if strings.TrimSpace(b.Author) == "" {
		b.Author = "Admin"
	}
	if strings.TrimSpace(b.Category) == "" {
		b.Category = "uncategorized"
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Comments == nil {
		b.Comments = []BlogComment{}
	}
}

func (b *Blog) Validate() error {
	b.Title = strings.TrimSpace(b.Title)
	switch {
	case b.Title == "":
		return NewValidationError("Title is required")
	case strings.TrimSpace(b.Content) == "":
		return NewValidationError("Content is required")
	case b.ReadTime < 0:
		return NewValidationError("Read time cannot be negative")
	}
	return nil
}

// TimelineItem is one entry of the career timeline.
type TimelineItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title" yaml:"title"`
	Company      string    `gorm:"not null" json:"company" yaml:"company"`
	Year         string    `gorm:"not null" json:"year" yaml:"year"`
	Description  string    `gorm:"type:text;not null" json:"description" yaml:"description"`
	Type         string    `gorm:"not null" json:"type" yaml:"type"`
	Achievements []string  `gorm:"type:text;serializer:json" json:"achievements" yaml:"achievements"`
	CreatedAt    time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt    time.Time `json:"updatedAt" yaml:"-"`
}

func (t *TimelineItem) GetID() uint        { return t.ID }
func (*TimelineItem) ResourceName() string { return "Timeline item" }
func (*TimelineItem) ImageRef() string     { return "" }
func (*TimelineItem) SetImageRef(string)   {}
func (*TimelineItem) ImageRequired() bool  { return false }

func (t *TimelineItem) ApplyDefaults() {
	if t.Achievements == nil {
		t.Achievements = []string{}
	}
}

func (t *TimelineItem) Validate() error {
	t.Title = strings.TrimSpace(t.Title)
	switch {
	case t.Title == "":
		return NewValidationError("Title is required")
	case strings.TrimSpace(t.Company) == "":
		return NewValidationError("Company is required")
	case strings.TrimSpace(t.Year) == "":
		return NewValidationError("Year is required")
	case strings.TrimSpace(t.Description) == "":
		return NewValidationError("Description is required")
	case t.Type != TimelineWork && t.Type != TimelineEducation:
		return NewValidationError("Type must be either work or education")
	}
	return nil
}
