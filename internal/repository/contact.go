package repository

import (
	"context"
	"errors"
	"strings"

	"folio/internal/models"

	"gorm.io/gorm"
)

// ErrAlreadySubscribed is returned when the email is already on the list.
var ErrAlreadySubscribed = models.NewValidationError("You are already subscribed.")

// ContactRepository persists contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	List(ctx context.Context) ([]models.Contact, error)
	Delete(ctx context.Context, id uint) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository returns a new ContactRepository implementation.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contactRepository) List(ctx context.Context) ([]models.Contact, error) {
	contacts := []models.Contact{}
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&contacts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return contacts, nil
}

func (r *contactRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Contact{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Message")
	}
	return nil
}

// SubscriberRepository persists newsletter subscriptions.
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *models.Subscriber) error
	GetByEmail(ctx context.Context, email string) (*models.Subscriber, error)
}

type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository returns a new SubscriberRepository implementation.
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) error {
	subscriber.Email = strings.ToLower(strings.TrimSpace(subscriber.Email))
	if err := r.db.WithContext(ctx).Create(subscriber).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadySubscribed
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByEmail returns nil, nil when the email is not subscribed.
func (r *subscriberRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&subscriber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &subscriber, nil
}
