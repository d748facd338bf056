package models

import (
	"strings"
	"time"
)

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Subject   string    `gorm:"not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    string    `gorm:"not null" json:"status"`
	Priority  string    `gorm:"not null" json:"priority"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the required contact form fields.
func (c *Contact) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Subject = strings.TrimSpace(c.Subject)
	switch {
	case c.Name == "":
		return NewValidationError("Name is required")
	case c.Email == "" || !strings.Contains(c.Email, "@"):
		return NewValidationError("A valid email is required")
	case c.Subject == "":
		return NewValidationError("Subject is required")
	case strings.TrimSpace(c.Message) == "":
		return NewValidationError("Message is required")
	}
	return nil
}

// Subscriber is a newsletter subscription.
type Subscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
