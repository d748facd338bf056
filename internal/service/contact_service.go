package service

import (
	"context"
	"log/slog"
	"strings"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/notifications"
	"folio/internal/repository"
)

// MsgContactDeliveryFailed is returned when a contact was stored but the alert was not sent.
const MsgContactDeliveryFailed = "Contact saved, but failed to send email notification."

// ContactInput is a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactService stores contact submissions and alerts the site owner.
type ContactService struct {
	contacts  repository.ContactRepository
	notifier  notifications.Notifier
	recipient string
}

// NewContactService returns a ContactService alerting recipient.
func NewContactService(contacts repository.ContactRepository, notifier notifications.Notifier, recipient string) *ContactService {
	return &ContactService{contacts: contacts, notifier: notifier, recipient: recipient}
}

// Submit persists the contact, then sends the alert. A failed alert is
// reported as a DELIVERY_ERROR while the contact stays saved.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.Contact, error) {
	contact := &models.Contact{
		Name:     in.Name,
		Email:    in.Email,
		Subject:  in.Subject,
		Message:  in.Message,
		Status:   "new",
		Priority: "normal",
		IsActive: true,
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}

	if s.notifier == nil {
		return contact, nil
	}
	msg, err := notifications.ContactAlert(s.recipient, contact)
	if err == nil {
		err = s.notifier.Notify(ctx, msg)
	}
	if err != nil {
		return contact, models.NewDeliveryError(MsgContactDeliveryFailed, err)
	}
	return contact, nil
}

func (s *ContactService) List(ctx context.Context) ([]models.Contact, error) {
	return s.contacts.List(ctx)
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	return s.contacts.Delete(ctx, id)
}

// SubscribeService manages newsletter subscriptions.
type SubscribeService struct {
	subscribers repository.SubscriberRepository
	notifier    notifications.Notifier
}

// NewSubscribeService returns a SubscribeService.
func NewSubscribeService(subscribers repository.SubscriberRepository, notifier notifications.Notifier) *SubscribeService {
	return &SubscribeService{subscribers: subscribers, notifier: notifier}
}

// Subscribe adds email to the list and sends a best-effort confirmation.
func (s *SubscribeService) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, models.NewValidationError("Email is required")
	}

	existing, err := s.subscribers.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repository.ErrAlreadySubscribed
	}

	subscriber := &models.Subscriber{Email: email, IsActive: true}
	if err := s.subscribers.Create(ctx, subscriber); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, notifications.SubscriptionConfirmation(email)); err != nil {
			middleware.Logger.WarnContext(ctx, "subscription confirmation failed",
				slog.String("error", err.Error()),
			)
		}
	}
	return subscriber, nil
}
